package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gastocerto/internal/models"
	"gastocerto/internal/services"
)

// ImportHandler handles statement imports.
type ImportHandler struct {
	importService services.ImportServicer
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService services.ImportServicer) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportLinesRequest opens a review over lines the client already has.
type ImportLinesRequest struct {
	Lines []CreateTransactionRequest `json:"lines" binding:"required,min=1,dive"`
}

// BeginImport handles a statement upload
// @Summary     Import a statement
// @Description Recognizes every line of a statement and opens a review. Lines already in the ledger start unselected.
// @Description A JSON body with "lines" opens a review without recognition.
// @Tags        imports
// @Accept      multipart/form-data
// @Accept      json
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       document formData file false "Statement image or PDF"
// @Success     201 {object} ImportReviewResponse
// @Failure     400 {object} ErrorResponse "Invalid document"
// @Failure     409 {object} ErrorResponse "Another upload is in progress"
// @Failure     502 {object} ErrorResponse "Recognition failed"
// @Router      /imports [post]
func (h *ImportHandler) BeginImport(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var review *services.ImportReview
	if c.ContentType() == gin.MIMEJSON {
		review, err = h.openLines(c, householdID)
	} else {
		review, err = h.recognize(c, householdID)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newImportReviewResponse(review))
}

func (h *ImportHandler) recognize(c *gin.Context, householdID string) (*services.ImportReview, error) {
	doc, err := readDocument(c)
	if err != nil {
		return nil, err
	}
	return h.importService.Begin(c.Request.Context(), householdID, doc)
}

func (h *ImportHandler) openLines(c *gin.Context, householdID string) (*services.ImportReview, error) {
	var req ImportLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, bindError(err)
	}
	candidates := make([]models.Transaction, len(req.Lines))
	for i, line := range req.Lines {
		sub, err := line.submission()
		if err != nil {
			return nil, bindError(err)
		}
		candidates[i] = sub.Record
	}
	return h.importService.Open(householdID, candidates)
}

// GetImport handles the retrieval of a review
// @Summary     Get an import review
// @Tags        imports
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       id path string true "Review ID"
// @Success     200 {object} ImportReviewResponse
// @Failure     404 {object} ErrorResponse "Review not found"
// @Router      /imports/{id} [get]
func (h *ImportHandler) GetImport(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	review, err := h.importService.Get(householdID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newImportReviewResponse(review))
}

// ToggleLine handles a selection change
// @Summary     Toggle a statement line
// @Tags        imports
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       id    path string true "Review ID"
// @Param       index path int    true "Line index"
// @Success     200 {object} ImportReviewResponse
// @Failure     400 {object} ErrorResponse "Index out of range"
// @Failure     404 {object} ErrorResponse "Review not found"
// @Router      /imports/{id}/toggle/{index} [post]
func (h *ImportHandler) ToggleLine(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	index, err := parseIndex(c, "index")
	if err != nil {
		respondWithError(c, err)
		return
	}

	review, err := h.importService.Toggle(householdID, c.Param("id"), index)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newImportReviewResponse(review))
}

// CommitImport handles the commit of the selected lines
// @Summary     Commit an import
// @Description Writes every selected line in one transaction
// @Tags        imports
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       id path string true "Review ID"
// @Success     201 {object} map[string][]TransactionResponse
// @Failure     404 {object} ErrorResponse "Review not found"
// @Failure     500 {object} ErrorResponse "Nothing was written"
// @Router      /imports/{id}/commit [post]
func (h *ImportHandler) CommitImport(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.importService.Commit(householdID, getOwner(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transactions": newTransactionResponses(created)})
}

// DiscardImport handles closing a review without writing
// @Summary     Discard an import
// @Tags        imports
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       id path string true "Review ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} ErrorResponse "Review not found"
// @Router      /imports/{id} [delete]
func (h *ImportHandler) DiscardImport(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.importService.Discard(householdID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Import discarded"})
}
