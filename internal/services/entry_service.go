package services

import (
	"context"
	"errors"
	"sync"

	"gastocerto/internal/confirm"
	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/logger"
	"gastocerto/internal/models"
	"gastocerto/internal/recognition"
	"gastocerto/internal/uuid"
)

type pendingEntry struct {
	householdID string
	ownerRef    string
	flow        *confirm.Flow
}

// entryService runs single entries through the confirmation flow. Held
// duplicates live in memory until confirmed or cancelled.
type entryService struct {
	transactions TransactionServicer
	uploader     *recognition.Uploader

	mu      sync.Mutex
	pending map[string]*pendingEntry
}

// NewEntryService creates a new EntryServicer. uploader may be nil when no
// recognition service is configured.
func NewEntryService(transactions TransactionServicer, uploader *recognition.Uploader) EntryServicer {
	return &entryService{
		transactions: transactions,
		uploader:     uploader,
		pending:      make(map[string]*pendingEntry),
	}
}

// Submit checks a manual entry for duplicates and writes it, or holds it.
func (s *entryService) Submit(householdID, ownerRef string, sub confirm.Submission) (*EntryOutcome, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	sub, err := prepareSubmission(sub)
	if err != nil {
		return nil, err
	}

	existing, err := s.transactions.ListTransactions(householdID)
	if err != nil {
		return nil, err
	}

	flow := confirm.New(sub)
	var created []models.Transaction
	state, err := flow.Resolve(existing, func(sub confirm.Submission) error {
		var insertErr error
		created, insertErr = s.transactions.CreateTransaction(householdID, ownerRef, sub)
		return insertErr
	})
	if err != nil {
		return nil, err
	}

	if state == confirm.Committed {
		return &EntryOutcome{State: state, Records: created}, nil
	}

	id := uuid.New()
	s.mu.Lock()
	s.pending[id] = &pendingEntry{householdID: householdID, ownerRef: ownerRef, flow: flow}
	s.mu.Unlock()

	held := flow.Review()
	logger.Get().Infow("possible duplicate held for confirmation",
		"household_id", householdID,
		"pending_id", id,
		"description", held.Description,
	)
	return &EntryOutcome{State: state, PendingID: id, Held: &held}, nil
}

// Scan recognizes a receipt and submits the result as a manual entry.
func (s *entryService) Scan(ctx context.Context, householdID, ownerRef string, doc recognition.Document) (*EntryOutcome, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, apperrors.WithMessage(apperrors.ErrRecognitionFailure, "Document recognition is not configured")
	}

	candidate, err := s.uploader.ScanSingle(ctx, doc)
	if err != nil {
		logger.Get().Warnw("receipt recognition failed", "household_id", householdID, "document", doc.Name, "error", err)
		return nil, recognitionError(err)
	}
	return s.Submit(householdID, ownerRef, confirm.Submission{Record: candidate})
}

// GetPending returns a held entry.
func (s *entryService) GetPending(householdID, pendingID string) (*EntryOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(householdID, pendingID)
	if err != nil {
		return nil, err
	}
	held := entry.flow.Review()
	return &EntryOutcome{State: entry.flow.State(), PendingID: pendingID, Held: &held}, nil
}

// Confirm writes a held entry exactly as it was submitted.
func (s *entryService) Confirm(householdID, pendingID string) (*EntryOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(householdID, pendingID)
	if err != nil {
		return nil, err
	}

	var created []models.Transaction
	err = entry.flow.Confirm(func(sub confirm.Submission) error {
		var insertErr error
		created, insertErr = s.transactions.CreateTransaction(entry.householdID, entry.ownerRef, sub)
		return insertErr
	})
	if errors.Is(err, confirm.ErrInvalidTransition) {
		return nil, apperrors.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	delete(s.pending, pendingID)
	return &EntryOutcome{State: entry.flow.State(), PendingID: pendingID, Records: created}, nil
}

// Cancel discards a held entry without writing.
func (s *entryService) Cancel(householdID, pendingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(householdID, pendingID)
	if err != nil {
		return err
	}
	if err := entry.flow.Cancel(); err != nil {
		return apperrors.ErrInvalidTransition
	}
	delete(s.pending, pendingID)
	return nil
}

func (s *entryService) lookup(householdID, pendingID string) (*pendingEntry, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	entry, ok := s.pending[pendingID]
	if !ok || entry.householdID != householdID {
		return nil, apperrors.ErrPendingNotFound
	}
	return entry, nil
}
