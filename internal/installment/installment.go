// Package installment splits an expense paid in instalments into one ledger
// record per month.
package installment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"gastocerto/internal/models"
	"gastocerto/internal/uuid"
)

// Count bounds accepted by Expand.
const (
	MinInstallments = 2
	MaxInstallments = 72
)

var (
	ErrTooFewInstallments  = fmt.Errorf("installment count must be at least %d", MinInstallments)
	ErrTooManyInstallments = fmt.Errorf("installment count must be at most %d", MaxInstallments)
	ErrNotExpense          = errors.New("only expenses can be split into installments")
)

// Expand returns count records derived from base. The first falls one day
// after base.Date and each following one is a calendar month later. All
// members share a freshly generated group id.
func Expand(base models.Transaction, count int) ([]models.Transaction, error) {
	return expand(base, count, uuid.New())
}

func expand(base models.Transaction, count int, groupID string) ([]models.Transaction, error) {
	if count < MinInstallments {
		return nil, ErrTooFewInstallments
	}
	if count > MaxInstallments {
		return nil, ErrTooManyInstallments
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if base.Kind != models.KindExpense {
		return nil, ErrNotExpense
	}

	description := strings.TrimSpace(base.Description)
	start := base.Date.AddDays(1)

	members := make([]models.Transaction, count)
	for i := range members {
		m := base
		m.Base = models.Base{}
		m.Description = fmt.Sprintf("%s (%d/%d)", description, i+1, count)
		m.Date = ShiftMonths(start, i)
		m.InstallmentIndex = i + 1
		m.InstallmentTotal = count
		gid := groupID
		m.InstallmentGroupID = &gid
		members[i] = m
	}
	return members, nil
}

// ShiftMonths moves d forward by n calendar months. When d's day does not
// exist in the target month it is clamped to that month's last day.
func ShiftMonths(d civil.Date, n int) civil.Date {
	target := civil.Date{Year: d.Year, Month: d.Month, Day: 1}.AddMonths(n)
	day := d.Day
	if last := daysIn(target.Year, target.Month); day > last {
		day = last
	}
	return civil.Date{Year: target.Year, Month: target.Month, Day: day}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
