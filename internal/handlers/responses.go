package handlers

import (
	"time"

	"cloud.google.com/go/civil"

	"gastocerto/internal/confirm"
	"gastocerto/internal/ledger"
	"gastocerto/internal/models"
	"gastocerto/internal/services"
)

// TransactionResponse represents a transaction in the response
type TransactionResponse struct {
	ID              string                  `json:"id"`
	HouseholdID     string                  `json:"household_id"`
	OwnerRef        string                  `json:"owner_ref"`
	Description     string                  `json:"description"`
	Amount          string                  `json:"amount" example:"1200.00"`
	Date            civil.Date              `json:"date" swaggertype:"string" example:"2024-03-02"`
	Kind            models.TransactionKind  `json:"kind"`
	IsRecurring     bool                    `json:"is_recurring"`
	InstallmentInfo *models.InstallmentInfo `json:"installment_info,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

func newTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		HouseholdID:     t.HouseholdID,
		OwnerRef:        t.OwnerRef,
		Description:     t.Description,
		Amount:          t.Amount.StringFixed(2),
		Date:            t.Date,
		Kind:            t.Kind,
		IsRecurring:     t.IsRecurring,
		InstallmentInfo: t.Installment(),
		CreatedAt:       t.CreatedAt,
	}
}

func newTransactionResponses(records []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(records))
	for i, r := range records {
		out[i] = newTransactionResponse(r)
	}
	return out
}

// EntryResponse reports the outcome of a manual or scanned entry.
// State is "committed" or "awaiting_confirmation".
type EntryResponse struct {
	State        confirm.State         `json:"state" swaggertype:"string" example:"committed"`
	PendingID    string                `json:"pending_id,omitempty"`
	Held         *confirm.Held         `json:"held,omitempty"`
	Transactions []TransactionResponse `json:"transactions"`
}

func newEntryResponse(o *services.EntryOutcome) EntryResponse {
	return EntryResponse{
		State:        o.State,
		PendingID:    o.PendingID,
		Held:         o.Held,
		Transactions: newTransactionResponses(o.Records),
	}
}

// ImportItemResponse is one reviewed statement line.
type ImportItemResponse struct {
	Index       int                 `json:"index"`
	Candidate   TransactionResponse `json:"candidate"`
	IsDuplicate bool                `json:"is_duplicate"`
	Selected    bool                `json:"selected"`
}

// ImportReviewResponse is an import awaiting commit.
type ImportReviewResponse struct {
	ID             string               `json:"id"`
	Items          []ImportItemResponse `json:"items"`
	SelectedCount  int                  `json:"selected_count"`
	DuplicateCount int                  `json:"duplicate_count"`
}

func newImportReviewResponse(r *services.ImportReview) ImportReviewResponse {
	items := make([]ImportItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = ImportItemResponse{
			Index:       it.Index,
			Candidate:   newTransactionResponse(it.Candidate),
			IsDuplicate: it.IsDuplicate,
			Selected:    it.Selected,
		}
	}
	return ImportReviewResponse{
		ID:             r.ID,
		Items:          items,
		SelectedCount:  r.SelectedCount,
		DuplicateCount: r.DuplicateCount,
	}
}

// SummaryResponse holds the household totals.
type SummaryResponse struct {
	TotalIncome   string `json:"total_income" example:"5000.00"`
	TotalExpenses string `json:"total_expenses" example:"1235.50"`
	Balance       string `json:"balance" example:"3764.50"`
	Count         int    `json:"count"`
}

func newSummaryResponse(t ledger.Totals) SummaryResponse {
	return SummaryResponse{
		TotalIncome:   t.Income.StringFixed(2),
		TotalExpenses: t.Expenses.StringFixed(2),
		Balance:       t.Balance.StringFixed(2),
		Count:         t.Count,
	}
}
