package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gastocerto/internal/models"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// HouseholdID returns a fresh household id for a test.
func HouseholdID() string {
	return fmt.Sprintf("familia-%08d", nextID())
}

// Day parses a "YYYY-MM-DD" literal or panics.
func Day(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Candidate builds an unsaved expense record.
func Candidate(description, amount, date string) models.Transaction {
	return models.Transaction{
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Date:        Day(date),
		Kind:        models.KindExpense,
	}
}

// CreateTestTransaction stores a record for householdID.
func CreateTestTransaction(t *testing.T, db *gorm.DB, householdID string, kind models.TransactionKind, description, amount, date string) *models.Transaction {
	t.Helper()

	tx := Candidate(description, amount, date)
	tx.Kind = kind
	tx.HouseholdID = householdID
	tx.OwnerRef = "fixture"
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return &tx
}

// CreateTestDescription stores a custom description tag for householdID.
func CreateTestDescription(t *testing.T, db *gorm.DB, householdID, name string) *models.DescriptionTag {
	t.Helper()

	tag := &models.DescriptionTag{HouseholdID: householdID, Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test description: %v", err)
	}
	return tag
}

// CountTransactions returns the number of live records for householdID.
func CountTransactions(t *testing.T, db *gorm.DB, householdID string) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Transaction{}).Where("household_id = ?", householdID).Count(&n).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return n
}
