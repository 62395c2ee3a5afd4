package services

import (
	"context"

	"gorm.io/gorm"

	"gastocerto/internal/events"
	"gastocerto/internal/feed"
	"gastocerto/internal/logger"
	"gastocerto/internal/models"
)

// Notifier pushes the fresh household snapshot to local viewers and
// announces the change to other instances after every committed write.
// A nil Notifier does nothing.
type Notifier struct {
	db        *gorm.DB
	broker    *feed.Broker
	publisher events.Publisher
}

// NewNotifier creates a Notifier. publisher may be nil.
func NewNotifier(db *gorm.DB, broker *feed.Broker, publisher events.Publisher) *Notifier {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Notifier{db: db, broker: broker, publisher: publisher}
}

// Changed reports a committed mutation. Failures are logged, never returned:
// the write has already happened.
func (n *Notifier) Changed(householdID, operation string, ids []string) {
	if n == nil {
		return
	}
	log := logger.Named("notifier")

	if err := n.Refresh(householdID); err != nil {
		log.Warnw("failed to refresh viewers", "household_id", householdID, "error", err)
	}
	msg := events.NewLedgerChanged(householdID, operation, ids)
	if err := n.publisher.PublishLedgerChanged(context.Background(), msg); err != nil {
		log.Warnw("failed to announce ledger change", "household_id", householdID, "error", err)
	}
}

// Refresh reloads the household and hands the snapshot to local viewers.
func (n *Notifier) Refresh(householdID string) error {
	if n == nil || n.broker == nil || n.broker.Subscribers(householdID) == 0 {
		return nil
	}
	snapshot, err := listHousehold(n.db, householdID)
	if err != nil {
		return err
	}
	n.broker.Publish(householdID, snapshot)
	return nil
}

// HandleRemoteChange refreshes local viewers on a notice from another instance.
func (n *Notifier) HandleRemoteChange(msg *events.LedgerChanged) error {
	return n.Refresh(msg.HouseholdID)
}

func listHousehold(db *gorm.DB, householdID string) ([]models.Transaction, error) {
	var records []models.Transaction
	if err := db.Where("household_id = ?", householdID).
		Order("date DESC, created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
