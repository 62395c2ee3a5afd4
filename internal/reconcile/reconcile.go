// Package reconcile decides whether a candidate transaction is already on
// record for the household.
//
// Two records describe the same event when their trimmed descriptions are
// equal (case-sensitive), their amounts differ by strictly less than one
// cent, and they fall on the same UTC calendar day. Dates on
// models.Transaction are already calendar days; use DayOf to reduce a raw
// timestamp first.
package reconcile

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"gastocerto/internal/models"
)

// Tolerance is the exclusive upper bound on the amount difference of two
// records that describe the same event.
var Tolerance = decimal.New(1, -2)

// DayOf reduces a timestamp to its UTC calendar day.
func DayOf(t time.Time) civil.Date {
	return models.DayOf(t)
}

// SameEvent is the pairwise predicate. It is symmetric.
func SameEvent(a, b models.Transaction) bool {
	if strings.TrimSpace(a.Description) != strings.TrimSpace(b.Description) {
		return false
	}
	if a.Amount.Sub(b.Amount).Abs().GreaterThanOrEqual(Tolerance) {
		return false
	}
	return a.Date == b.Date
}

// IsDuplicate reports whether any record in existing describes the same
// event as candidate. The scan is linear and existing is never modified.
func IsDuplicate(candidate models.Transaction, existing []models.Transaction) bool {
	return FindDuplicate(candidate, existing) >= 0
}

// FindDuplicate returns the index of the first record in existing matching
// candidate, or -1.
func FindDuplicate(candidate models.Transaction, existing []models.Transaction) int {
	for i := range existing {
		if SameEvent(existing[i], candidate) {
			return i
		}
	}
	return -1
}
