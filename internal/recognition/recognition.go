// Package recognition turns photographed receipts and bank statements into
// candidate ledger records using a generative model.
package recognition

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"gastocerto/internal/models"
)

var (
	ErrUploadInProgress  = errors.New("another document is still being processed")
	ErrEmptyDocument     = errors.New("document is empty")
	ErrUnsupportedFormat = errors.New("document must be an image or a PDF")
	ErrNoCandidate       = errors.New("no transaction could be read from the document")
	ErrMalformedResponse = errors.New("recognition service returned an unreadable response")
)

// NotFoundDescription is used when a receipt has no readable description.
const NotFoundDescription = "Não encontrado"

// Document is an uploaded file.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Validate checks that the document can be sent for recognition.
func (d Document) Validate() error {
	if len(d.Data) == 0 {
		return ErrEmptyDocument
	}
	if !strings.HasPrefix(d.MIMEType, "image/") && d.MIMEType != "application/pdf" {
		return ErrUnsupportedFormat
	}
	return nil
}

// Recognizer extracts candidates from documents. Candidates carry no id
// and no household.
type Recognizer interface {
	RecognizeSingle(ctx context.Context, doc Document) (models.Transaction, error)
	RecognizeStatement(ctx context.Context, doc Document) ([]models.Transaction, error)
}

// Uploader lets a single recognition run at a time. A call made while
// another is in flight fails with ErrUploadInProgress.
type Uploader struct {
	recognizer Recognizer
	processing atomic.Bool
}

// NewUploader wraps r.
func NewUploader(r Recognizer) *Uploader {
	return &Uploader{recognizer: r}
}

// Processing reports whether a recognition is in flight.
func (u *Uploader) Processing() bool {
	return u.processing.Load()
}

// ScanSingle recognizes one receipt.
func (u *Uploader) ScanSingle(ctx context.Context, doc Document) (models.Transaction, error) {
	if err := doc.Validate(); err != nil {
		return models.Transaction{}, err
	}
	if !u.processing.CompareAndSwap(false, true) {
		return models.Transaction{}, ErrUploadInProgress
	}
	defer u.processing.Store(false)

	return u.recognizer.RecognizeSingle(ctx, doc)
}

// ScanStatement recognizes every line of a statement.
func (u *Uploader) ScanStatement(ctx context.Context, doc Document) ([]models.Transaction, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if !u.processing.CompareAndSwap(false, true) {
		return nil, ErrUploadInProgress
	}
	defer u.processing.Store(false)

	return u.recognizer.RecognizeStatement(ctx, doc)
}
