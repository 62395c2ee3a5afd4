// Package ledger derives the household totals from a snapshot of records.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"gastocerto/internal/models"
)

// Totals summarizes a snapshot. Balance is Income minus Expenses.
type Totals struct {
	Income   decimal.Decimal `json:"total_income"`
	Expenses decimal.Decimal `json:"total_expenses"`
	Balance  decimal.Decimal `json:"balance"`
	// Count is how many records entered the sums.
	Count    int             `json:"count"`
}

// Aggregate sums records by kind. Records of an unknown kind are ignored.
func Aggregate(records []models.Transaction) Totals {
	totals := Totals{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, r := range records {
		switch r.Kind {
		case models.KindIncome:
			totals.Income = totals.Income.Add(r.Amount)
		case models.KindExpense:
			totals.Expenses = totals.Expenses.Add(r.Amount)
		default:
			continue
		}
		totals.Count++
	}
	totals.Balance = totals.Income.Sub(totals.Expenses)
	return totals
}

// Watch calls fn with fresh totals for every snapshot received until the
// channel closes or ctx is done.
func Watch(ctx context.Context, snapshots <-chan []models.Transaction, fn func(Totals)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			fn(Aggregate(snap))
		}
	}
}
