package models

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DayOf returns the UTC calendar day of t. Stored timestamps are reduced
// to this before any comparison.
func DayOf(t time.Time) civil.Date {
	return civil.DateOf(t.UTC())
}

// Today returns the current UTC calendar day.
func Today() civil.Date {
	return DayOf(time.Now())
}

// ParseDay accepts either a plain calendar date ("2024-03-05") or an
// RFC 3339 timestamp, which is reduced to its UTC calendar day.
func ParseDay(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DayOf(ts), nil
}
