package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gastocerto/internal/confirm"
	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/events"
	"gastocerto/internal/installment"
	"gastocerto/internal/ledger"
	"gastocerto/internal/logger"
	"gastocerto/internal/models"
	"gastocerto/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewTransactionService creates a new TransactionServicer. notifier may be nil.
func NewTransactionService(db *gorm.DB, notifier *Notifier) TransactionServicer {
	return &transactionService{db: db, notifier: notifier}
}

// prepareSubmission trims and validates sub before anything is read or written.
func prepareSubmission(sub confirm.Submission) (confirm.Submission, error) {
	sub.Record.Normalize()
	if err := sub.Record.Validate(); err != nil {
		return sub, apperrors.Invalid(err)
	}
	switch {
	case sub.Installments < 0:
		return sub, apperrors.WithMessage(apperrors.ErrValidation, "installment count must not be negative")
	case sub.Installments > installment.MaxInstallments:
		return sub, apperrors.Invalid(installment.ErrTooManyInstallments)
	case sub.Installments > 1 && sub.Record.Kind != models.KindExpense:
		return sub, apperrors.Invalid(installment.ErrNotExpense)
	}
	return sub, nil
}

// ListTransactions returns the full household history, newest date first.
func (s *transactionService) ListTransactions(householdID string) ([]models.Transaction, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	records, err := listHousehold(s.db, householdID)
	if err != nil {
		return nil, persistenceError(err)
	}
	return records, nil
}

// GetHouseholdTransactions returns one filtered page of the history.
func (s *transactionService) GetHouseholdTransactions(householdID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.Page[models.Transaction], error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	page = page.Normalize()

	base := s.db.Model(&models.Transaction{}).Where("household_id = ?", householdID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, persistenceError(err)
	}

	var records []models.Transaction
	if err := base.Scopes(pagination.Scope(page)).
		Order("date DESC, created_at DESC").
		Find(&records).Error; err != nil {
		return nil, persistenceError(err)
	}

	result := pagination.NewPage(records, page, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if f.Kind != nil {
		q = q.Where("kind = ?", *f.Kind)
	}
	return q
}

// GetTransactionByID retrieves one record of the household.
func (s *transactionService) GetTransactionByID(householdID, transactionID string) (*models.Transaction, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	var record models.Transaction
	if err := s.db.Where("id = ? AND household_id = ?", transactionID, householdID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, persistenceError(err)
	}
	return &record, nil
}

// CreateTransaction writes a manual entry. An installment count above one
// expands the entry and writes every member in a single transaction.
func (s *transactionService) CreateTransaction(householdID, ownerRef string, sub confirm.Submission) ([]models.Transaction, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	sub, err := prepareSubmission(sub)
	if err != nil {
		return nil, err
	}

	records := []models.Transaction{sub.Record}
	if sub.Installments > 1 {
		records, err = installment.Expand(sub.Record, sub.Installments)
		if err != nil {
			return nil, apperrors.Invalid(err)
		}
	}

	created, err := s.insert(householdID, ownerRef, records)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	if info := created[0].Installment(); info != nil {
		log.Infow("installment group created", "household_id", householdID, "group_id", info.GroupID, "count", info.Total)
	} else {
		log.Infow("transaction created", "household_id", householdID, "transaction_id", created[0].ID)
	}
	s.notifier.Changed(householdID, events.OpCreated, ids(created))
	return created, nil
}

// CreateBatch writes records all-or-nothing. An empty batch writes nothing.
func (s *transactionService) CreateBatch(householdID, ownerRef string, records []models.Transaction) ([]models.Transaction, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []models.Transaction{}, nil
	}

	batch := make([]models.Transaction, len(records))
	for i, r := range records {
		r.Normalize()
		if err := r.Validate(); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("item %d: %v", i, err))
		}
		batch[i] = r
	}

	created, err := s.insert(householdID, ownerRef, batch)
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("batch imported", "household_id", householdID, "count", len(created))
	s.notifier.Changed(householdID, events.OpImported, ids(created))
	return created, nil
}

func (s *transactionService) insert(householdID, ownerRef string, records []models.Transaction) ([]models.Transaction, error) {
	if ownerRef == "" {
		ownerRef = "anonymous"
	}
	for i := range records {
		records[i].Base = models.Base{}
		records[i].HouseholdID = householdID
		records[i].OwnerRef = ownerRef
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
	if err != nil {
		logger.Get().Errorw("ledger write failed", "household_id", householdID, "count", len(records), "error", err)
		return nil, persistenceError(err)
	}
	return records, nil
}

// DeleteTransaction removes one record of the household.
func (s *transactionService) DeleteTransaction(householdID, transactionID string) error {
	if err := requireHousehold(householdID); err != nil {
		return err
	}
	result := s.db.Where("id = ? AND household_id = ?", transactionID, householdID).Delete(&models.Transaction{})
	if result.Error != nil {
		return persistenceError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	logger.Get().Infow("transaction deleted", "household_id", householdID, "transaction_id", transactionID)
	s.notifier.Changed(householdID, events.OpDeleted, []string{transactionID})
	return nil
}

// GetSummary aggregates the whole household history.
func (s *transactionService) GetSummary(householdID string) (*ledger.Totals, error) {
	records, err := s.ListTransactions(householdID)
	if err != nil {
		return nil, err
	}
	totals := ledger.Aggregate(records)
	return &totals, nil
}

func ids(records []models.Transaction) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
