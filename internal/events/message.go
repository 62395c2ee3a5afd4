// Package events carries ledger-change notices between API instances over
// RabbitMQ so that every instance can refresh the viewers it serves.
package events

import (
	"encoding/json"
	"time"
)

// Operations reported in LedgerChanged.
const (
	OpCreated  = "created"
	OpImported = "imported"
	OpDeleted  = "deleted"
)

// LedgerChanged announces a committed mutation of a household ledger.
type LedgerChanged struct {
	HouseholdID    string    `json:"household_id"`
	Operation      string    `json:"operation"`
	TransactionIDs []string  `json:"transaction_ids"`
	Origin         string    `json:"origin"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewLedgerChanged stamps a notice with the current time.
func NewLedgerChanged(householdID, operation string, ids []string) *LedgerChanged {
	return &LedgerChanged{
		HouseholdID:    householdID,
		Operation:      operation,
		TransactionIDs: ids,
		OccurredAt:     time.Now().UTC(),
	}
}

// ToJSON encodes the notice.
func (m *LedgerChanged) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedFromJSON decodes a notice.
func LedgerChangedFromJSON(data []byte) (*LedgerChanged, error) {
	var m LedgerChanged
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
