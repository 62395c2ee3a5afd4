package services

import (
	"context"

	"cloud.google.com/go/civil"

	"gastocerto/internal/confirm"
	"gastocerto/internal/ledger"
	"gastocerto/internal/models"
	"gastocerto/internal/pagination"
	"gastocerto/internal/recognition"
)

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	From *civil.Date
	To   *civil.Date
	Kind *models.TransactionKind
}

// TransactionServicer is the household ledger store.
type TransactionServicer interface {
	ListTransactions(householdID string) ([]models.Transaction, error)
	GetHouseholdTransactions(householdID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.Page[models.Transaction], error)
	GetTransactionByID(householdID, transactionID string) (*models.Transaction, error)
	CreateTransaction(householdID, ownerRef string, sub confirm.Submission) ([]models.Transaction, error)
	CreateBatch(householdID, ownerRef string, records []models.Transaction) ([]models.Transaction, error)
	DeleteTransaction(householdID, transactionID string) error
	GetSummary(householdID string) (*ledger.Totals, error)
}

// DescriptionServicer manages the quick-entry description names.
type DescriptionServicer interface {
	ListDescriptions(householdID string) ([]models.DescriptionTag, error)
	AddDescription(householdID, name string) (*models.DescriptionTag, error)
}

// EntryOutcome reports where a single entry ended up.
type EntryOutcome struct {
	State     confirm.State        `json:"state"`
	PendingID string               `json:"pending_id,omitempty"`
	Held      *confirm.Held        `json:"held,omitempty"`
	Records   []models.Transaction `json:"records,omitempty"`
}

// EntryServicer writes single entries, holding suspected duplicates until
// the user confirms or cancels them.
type EntryServicer interface {
	Submit(householdID, ownerRef string, sub confirm.Submission) (*EntryOutcome, error)
	Scan(ctx context.Context, householdID, ownerRef string, doc recognition.Document) (*EntryOutcome, error)
	GetPending(householdID, pendingID string) (*EntryOutcome, error)
	Confirm(householdID, pendingID string) (*EntryOutcome, error)
	Cancel(householdID, pendingID string) error
}

// ImportItem is one statement line as presented for review.
type ImportItem struct {
	Index       int                `json:"index"`
	Candidate   models.Transaction `json:"candidate"`
	IsDuplicate bool               `json:"is_duplicate"`
	Selected    bool               `json:"selected"`
}

// ImportReview is the state of a statement import awaiting commit.
type ImportReview struct {
	ID             string       `json:"id"`
	Items          []ImportItem `json:"items"`
	SelectedCount  int          `json:"selected_count"`
	DuplicateCount int          `json:"duplicate_count"`
}

// ImportServicer runs statement imports from recognition to commit.
type ImportServicer interface {
	Begin(ctx context.Context, householdID string, doc recognition.Document) (*ImportReview, error)
	Open(householdID string, candidates []models.Transaction) (*ImportReview, error)
	Get(householdID, reviewID string) (*ImportReview, error)
	Toggle(householdID, reviewID string, index int) (*ImportReview, error)
	Commit(householdID, ownerRef, reviewID string) ([]models.Transaction, error)
	Discard(householdID, reviewID string) error
}
