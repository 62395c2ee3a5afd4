package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"gastocerto/internal/feed"
	"gastocerto/internal/ledger"
	"gastocerto/internal/models"
	"gastocerto/internal/services"
)

const keepAliveInterval = 25 * time.Second

// StreamHandler pushes the household's history to live viewers.
type StreamHandler struct {
	transactionService services.TransactionServicer
	broker             *feed.Broker
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(transactionService services.TransactionServicer, broker *feed.Broker) *StreamHandler {
	return &StreamHandler{transactionService: transactionService, broker: broker}
}

// SnapshotResponse is the full history plus the totals derived from it.
type SnapshotResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Summary      SummaryResponse       `json:"summary"`
}

func newSnapshotResponse(records []models.Transaction) SnapshotResponse {
	return SnapshotResponse{
		Transactions: newTransactionResponses(records),
		Summary:      newSummaryResponse(ledger.Aggregate(records)),
	}
}

// Stream handles a live subscription
// @Summary     Live history
// @Description Server-sent "snapshot" events: the current history first, then again after every change
// @Tags        transactions
// @Produce     text/event-stream
// @Param       X-Household-ID header string true "Household"
// @Success     200 {object} SnapshotResponse
// @Router      /stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Subscribe before reading so no change between the two is lost.
	updates, cancel := h.broker.Subscribe(householdID)
	defer cancel()

	initial, err := h.transactionService.ListTransactions(householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("snapshot", newSnapshotResponse(initial))
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case snapshot, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", newSnapshotResponse(snapshot))
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
