package models

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionKind tells whether an amount adds to or subtracts from the balance.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Validation failures reported by Transaction.Validate.
var (
	ErrEmptyDescription = errors.New("description is required")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrInvalidDate      = errors.New("date is not a valid calendar date")
	ErrInvalidKind      = errors.New("kind must be income or expense")
)

// InstallmentInfo places a record inside an installment group.
type InstallmentInfo struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	GroupID string `json:"group_id"`
}

// Transaction is one ledger entry of a household. Amount is always a
// magnitude; Kind carries the sign.
type Transaction struct {
	Base
	HouseholdID        string          `gorm:"type:varchar(64);not null;index" json:"household_id"`
	OwnerRef           string          `gorm:"type:varchar(128);not null" json:"owner_ref"`
	Description        string          `gorm:"type:varchar(255);not null" json:"description"`
	Amount             decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date               civil.Date      `gorm:"type:date;not null;index" json:"date"`
	Kind               TransactionKind `gorm:"type:varchar(16);not null" json:"kind"`
	IsRecurring        bool            `gorm:"not null" json:"is_recurring"`
	InstallmentIndex   int             `json:"-"`
	InstallmentTotal   int             `json:"-"`
	InstallmentGroupID *string         `gorm:"type:varchar(36);index" json:"-"`
}

// Installment returns the record's position in its group, or nil when the
// record was not produced by an installment expansion.
func (t Transaction) Installment() *InstallmentInfo {
	if t.InstallmentGroupID == nil {
		return nil
	}
	return &InstallmentInfo{
		Current: t.InstallmentIndex,
		Total:   t.InstallmentTotal,
		GroupID: *t.InstallmentGroupID,
	}
}

// Normalize trims the description in place.
func (t *Transaction) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
}

// Validate checks the invariants every persisted record must hold.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !t.Date.IsValid() {
		return ErrInvalidDate
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

// Signed returns the amount with the kind's sign applied.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
