package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gastocerto/internal/services"
)

// EntryHandler handles receipt scans and held duplicates.
type EntryHandler struct {
	entryService services.EntryServicer
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryService services.EntryServicer) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// ScanReceipt handles a receipt upload
// @Summary     Scan a receipt
// @Description Recognizes one expense from an image or PDF and writes it, or holds it when it looks like a duplicate
// @Tags        entries
// @Accept      multipart/form-data
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       document formData file true "Receipt image or PDF"
// @Success     201 {object} EntryResponse "Written"
// @Success     202 {object} EntryResponse "Held as a possible duplicate"
// @Failure     400 {object} ErrorResponse "Invalid document"
// @Failure     409 {object} ErrorResponse "Another upload is in progress"
// @Failure     502 {object} ErrorResponse "Recognition failed"
// @Router      /scans [post]
func (h *EntryHandler) ScanReceipt(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	doc, err := readDocument(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	outcome, err := h.entryService.Scan(c.Request.Context(), householdID, getOwner(c), doc)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithEntry(c, outcome)
}

// GetPending handles the retrieval of a held entry
// @Summary     Get a held entry
// @Tags        entries
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       id path string true "Pending ID"
// @Success     200 {object} EntryResponse
// @Failure     404 {object} ErrorResponse "Pending entry not found"
// @Router      /pending/{id} [get]
func (h *EntryHandler) GetPending(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	outcome, err := h.entryService.GetPending(householdID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEntryResponse(outcome))
}

// ConfirmPending handles the confirmation of a held entry
// @Summary     Confirm a held entry
// @Tags        entries
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       id path string true "Pending ID"
// @Success     201 {object} EntryResponse
// @Failure     404 {object} ErrorResponse "Pending entry not found"
// @Router      /pending/{id}/confirm [post]
func (h *EntryHandler) ConfirmPending(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	outcome, err := h.entryService.Confirm(householdID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newEntryResponse(outcome))
}

// CancelPending handles the cancellation of a held entry
// @Summary     Cancel a held entry
// @Tags        entries
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       id path string true "Pending ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} ErrorResponse "Pending entry not found"
// @Router      /pending/{id} [delete]
func (h *EntryHandler) CancelPending(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.entryService.Cancel(householdID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry discarded"})
}
