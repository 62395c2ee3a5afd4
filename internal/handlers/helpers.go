package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/middleware"
	"gastocerto/internal/recognition"
)

// maxDocumentBytes bounds uploaded receipts and statements.
const maxDocumentBytes = 10 << 20

// documentField is the multipart field carrying an uploaded document.
const documentField = "document"

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getHousehold returns the household selected by middleware.HouseholdContext.
func getHousehold(c *gin.Context) (string, error) {
	householdID := c.GetString(middleware.HouseholdIDKey)
	if householdID == "" {
		return "", apperrors.ErrHouseholdRequired
	}
	return householdID, nil
}

// getOwner returns the acting user reference, "anonymous" when unset.
func getOwner(c *gin.Context) string {
	if owner := c.GetString(middleware.OwnerRefKey); owner != "" {
		return owner
	}
	return "anonymous"
}

// parseIndex parses a non-negative integer path parameter.
func parseIndex(c *gin.Context, param string) (int, error) {
	n, err := strconv.Atoi(c.Param(param))
	if err != nil || n < 0 {
		return 0, apperrors.WithMessage(apperrors.ErrValidation, "Invalid "+param)
	}
	return n, nil
}

// readDocument loads the uploaded document from the multipart form.
func readDocument(c *gin.Context) (recognition.Document, error) {
	header, err := c.FormFile(documentField)
	if err != nil {
		return recognition.Document{}, apperrors.WithMessage(apperrors.ErrValidation, "A document file is required")
	}
	if header.Size > maxDocumentBytes {
		return recognition.Document{}, apperrors.WithMessage(apperrors.ErrValidation,
			fmt.Sprintf("Document exceeds %d MB", maxDocumentBytes>>20))
	}

	f, err := header.Open()
	if err != nil {
		return recognition.Document{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes))
	if err != nil {
		return recognition.Document{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return recognition.Document{Name: header.Filename, MIMEType: mimeType, Data: data}, nil
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// bindError turns a binding failure into a validation error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrValidation, err.Error())
}
