// Package uuid generates the identifiers used for ledger rows, installment
// groups and households.
package uuid

import (
	"strings"

	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7 string suitable for primary keys.
// It falls back to a random UUIDv4 if the v7 generator fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// Short returns prefix joined to the first eight hex digits of a random
// UUID, e.g. "familia-1a2b3c4d".
func Short(prefix string) string {
	hex := strings.ReplaceAll(googleuuid.NewString(), "-", "")
	return prefix + "-" + hex[:8]
}

// IsValid checks if a string is a valid UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
