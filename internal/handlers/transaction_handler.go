package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gastocerto/internal/confirm"
	"gastocerto/internal/models"
	"gastocerto/internal/pagination"
	"gastocerto/internal/services"
)

// TransactionHandler handles ledger history, manual entry and totals.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	entryService       services.EntryServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, entryService services.EntryServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, entryService: entryService}
}

// CreateTransactionRequest represents the request payload for a manual entry.
// Installments above one expands an expense into monthly records.
type CreateTransactionRequest struct {
	Description  string          `json:"description" binding:"required,max=255"`
	Amount       decimal.Decimal `json:"amount" binding:"amount" swaggertype:"string" example:"1200.00"`
	Date         string          `json:"date" binding:"omitempty,calendar_date" example:"2024-03-02"`
	Kind         string          `json:"kind" binding:"required,transaction_kind" example:"expense"`
	IsRecurring  bool            `json:"is_recurring"`
	Installments int             `json:"installments" binding:"omitempty,min=0"`
}

func (r CreateTransactionRequest) submission() (confirm.Submission, error) {
	date := models.Today()
	if r.Date != "" {
		parsed, err := models.ParseDay(r.Date)
		if err != nil {
			return confirm.Submission{}, err
		}
		date = parsed
	}
	return confirm.Submission{
		Record: models.Transaction{
			Description: r.Description,
			Amount:      r.Amount,
			Date:        date,
			Kind:        models.TransactionKind(r.Kind),
			IsRecurring: r.IsRecurring,
		},
		Installments: r.Installments,
	}, nil
}

// ListTransactionsQuery holds the history filters.
type ListTransactionsQuery struct {
	pagination.PageRequest
	From string `form:"from" binding:"omitempty,calendar_date"`
	To   string `form:"to" binding:"omitempty,calendar_date"`
	Kind string `form:"kind" binding:"omitempty,transaction_kind"`
}

func (q ListTransactionsQuery) filter() services.TransactionFilter {
	var f services.TransactionFilter
	if q.From != "" {
		if d, err := models.ParseDay(q.From); err == nil {
			f.From = &d
		}
	}
	if q.To != "" {
		if d, err := models.ParseDay(q.To); err == nil {
			f.To = &d
		}
	}
	if q.Kind != "" {
		k := models.TransactionKind(q.Kind)
		f.Kind = &k
	}
	return f
}

// CreateTransaction handles a manual entry
// @Summary     Create a transaction
// @Description Writes an entry, or holds it for confirmation when an identical record already exists
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       X-User-ID header string false "Acting user"
// @Param       request body CreateTransactionRequest true "Entry"
// @Success     201 {object} EntryResponse "Written"
// @Success     202 {object} EntryResponse "Held as a possible duplicate"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	sub, err := req.submission()
	if err != nil {
		respondWithError(c, bindError(err))
		return
	}

	outcome, err := h.entryService.Submit(householdID, getOwner(c), sub)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithEntry(c, outcome)
}

// respondWithEntry answers 201 for a written entry and 202 for a held one.
func respondWithEntry(c *gin.Context, outcome *services.EntryOutcome) {
	status := http.StatusCreated
	if outcome.State == confirm.AwaitingConfirmation {
		status = http.StatusAccepted
	}
	c.JSON(status, newEntryResponse(outcome))
}

// ListTransactions handles the household history
// @Summary     List transactions
// @Description Paginated history ordered by date, newest first
// @Tags        transactions
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 50, max 500)"
// @Param       from      query string false "First day (YYYY-MM-DD)"
// @Param       to        query string false "Last day (YYYY-MM-DD)"
// @Param       kind      query string false "income or expense"
// @Success     200 {object} pagination.Page[TransactionResponse]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	page, err := h.transactionService.GetHouseholdTransactions(householdID, q.PageRequest, q.filter())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(*page, newTransactionResponse))
}

// GetTransaction handles the retrieval of one record
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransactionByID(householdID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransactionResponse(*tx))
}

// DeleteTransaction handles explicit deletion
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(householdID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// GetSummary handles the household totals
// @Summary     Household totals
// @Tags        transactions
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Success     200 {object} SummaryResponse
// @Router      /summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.transactionService.GetSummary(householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSummaryResponse(*totals))
}
