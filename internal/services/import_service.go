package services

import (
	"context"
	"errors"
	"sync"

	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/importplan"
	"gastocerto/internal/logger"
	"gastocerto/internal/models"
	"gastocerto/internal/recognition"
	"gastocerto/internal/uuid"
)

type openReview struct {
	householdID string
	review      *importplan.Review
}

// importService keeps statement reviews in memory between recognition and
// commit.
type importService struct {
	transactions TransactionServicer
	uploader     *recognition.Uploader

	mu      sync.Mutex
	reviews map[string]*openReview
}

// NewImportService creates a new ImportServicer. uploader may be nil when no
// recognition service is configured; Open still works.
func NewImportService(transactions TransactionServicer, uploader *recognition.Uploader) ImportServicer {
	return &importService{
		transactions: transactions,
		uploader:     uploader,
		reviews:      make(map[string]*openReview),
	}
}

// Begin recognizes a statement and opens a review over its lines.
func (s *importService) Begin(ctx context.Context, householdID string, doc recognition.Document) (*ImportReview, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, apperrors.WithMessage(apperrors.ErrRecognitionFailure, "Document recognition is not configured")
	}

	candidates, err := s.uploader.ScanStatement(ctx, doc)
	if err != nil {
		logger.Get().Warnw("statement recognition failed", "household_id", householdID, "document", doc.Name, "error", err)
		return nil, recognitionError(err)
	}
	return s.Open(householdID, candidates)
}

// Open plans candidates against the current ledger and stores the review.
func (s *importService) Open(householdID string, candidates []models.Transaction) (*ImportReview, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	existing, err := s.transactions.ListTransactions(householdID)
	if err != nil {
		return nil, err
	}

	review := importplan.Start(candidates, existing)
	id := uuid.New()

	s.mu.Lock()
	s.reviews[id] = &openReview{householdID: householdID, review: review}
	s.mu.Unlock()

	logger.Get().Infow("import review opened",
		"household_id", householdID,
		"review_id", id,
		"count", review.Len(),
		"duplicates", review.DuplicateCount(),
	)
	return view(id, review), nil
}

// Get returns the current state of a review.
func (s *importService) Get(householdID, reviewID string) (*ImportReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.lookup(householdID, reviewID)
	if err != nil {
		return nil, err
	}
	return view(reviewID, open.review), nil
}

// Toggle flips the selection of one line.
func (s *importService) Toggle(householdID, reviewID string, index int) (*ImportReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.lookup(householdID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := open.review.Toggle(index); err != nil {
		if errors.Is(err, importplan.ErrIndexOutOfRange) {
			return nil, apperrors.Invalid(err)
		}
		return nil, err
	}
	return view(reviewID, open.review), nil
}

// Commit writes the selected lines in one transaction and closes the review.
// A failed write keeps the review open so it can be retried.
func (s *importService) Commit(householdID, ownerRef, reviewID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.lookup(householdID, reviewID)
	if err != nil {
		return nil, err
	}

	created, err := s.transactions.CreateBatch(householdID, ownerRef, open.review.Commit())
	if err != nil {
		return nil, err
	}
	delete(s.reviews, reviewID)
	return created, nil
}

// Discard closes a review without writing.
func (s *importService) Discard(householdID, reviewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(householdID, reviewID); err != nil {
		return err
	}
	delete(s.reviews, reviewID)
	return nil
}

func (s *importService) lookup(householdID, reviewID string) (*openReview, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	open, ok := s.reviews[reviewID]
	if !ok || open.householdID != householdID {
		return nil, apperrors.ErrReviewNotFound
	}
	return open, nil
}

func view(id string, r *importplan.Review) *ImportReview {
	items := r.Items()
	out := &ImportReview{
		ID:             id,
		Items:          make([]ImportItem, len(items)),
		SelectedCount:  r.SelectedCount(),
		DuplicateCount: r.DuplicateCount(),
	}
	for i, it := range items {
		out.Items[i] = ImportItem{
			Index:       i,
			Candidate:   it.Candidate,
			IsDuplicate: it.IsDuplicate,
			Selected:    r.IsSelected(i),
		}
	}
	return out
}
