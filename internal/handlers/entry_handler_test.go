package handlers

import (
	"context"
	"net/http"
	"testing"

	"gastocerto/internal/confirm"
	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/models"
	"gastocerto/internal/recognition"
	"gastocerto/internal/services"
	"gastocerto/internal/testutil"
)

func TestEntryHandler_ScanReceipt(t *testing.T) {
	t.Run("sends the uploaded document", func(t *testing.T) {
		var got recognition.Document
		entries := &mockEntryService{
			scanFn: func(_ context.Context, householdID, _ string, doc recognition.Document) (*services.EntryOutcome, error) {
				got = doc
				return &services.EntryOutcome{
					State:   confirm.Committed,
					Records: []models.Transaction{testutil.Candidate("Padaria", "12.50", "2024-03-02")},
				}, nil
			},
		}
		r := setupRouter(Services{Entries: entries})

		rec := doUpload(t, r, "/api/v1/scans", "cupom.jpg", "image/jpeg", []byte("\xff\xd8\xff receipt"))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name != "cupom.jpg" || got.MIMEType != "image/jpeg" || len(got.Data) == 0 {
			t.Errorf("unexpected document %+v", got)
		}
	})

	t.Run("returns 400 without a document", func(t *testing.T) {
		r := setupRouter(Services{})
		rec := doRequest(r, "POST", "/api/v1/scans", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"upload in progress", apperrors.ErrUploadInProgress, http.StatusConflict, "UPLOAD_IN_PROGRESS"},
		{"recognition failure", apperrors.ErrRecognitionFailure, http.StatusBadGateway, "RECOGNITION_FAILURE"},
	}
	for _, tt := range errorCases {
		t.Run("maps "+tt.name, func(t *testing.T) {
			entries := &mockEntryService{
				scanFn: func(context.Context, string, string, recognition.Document) (*services.EntryOutcome, error) {
					return nil, tt.err
				},
			}
			r := setupRouter(Services{Entries: entries})

			rec := doUpload(t, r, "/api/v1/scans", "cupom.pdf", "application/pdf", []byte("%PDF-1.4"))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), tt.code)
		})
	}
}

func TestEntryHandler_Pending(t *testing.T) {
	held := &confirm.Held{Description: "Aluguel", Amount: testutil.Candidate("Aluguel", "1200", "2024-03-05").Amount, Date: testutil.Day("2024-03-05")}
	entries := &mockEntryService{
		getPendingFn: func(_, id string) (*services.EntryOutcome, error) {
			if id != "pending-1" {
				return nil, apperrors.ErrPendingNotFound
			}
			return &services.EntryOutcome{State: confirm.AwaitingConfirmation, PendingID: id, Held: held}, nil
		},
		confirmFn: func(_, id string) (*services.EntryOutcome, error) {
			if id == "done" {
				return nil, apperrors.ErrInvalidTransition
			}
			return &services.EntryOutcome{State: confirm.Committed, PendingID: id,
				Records: []models.Transaction{testutil.Candidate("Aluguel", "1200", "2024-03-05")}}, nil
		},
		cancelFn: func(_, id string) error {
			if id != "pending-1" {
				return apperrors.ErrPendingNotFound
			}
			return nil
		},
	}
	r := setupRouter(Services{Entries: entries})

	rec := doRequest(r, "GET", "/api/v1/pending/pending-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["state"] != "awaiting_confirmation" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	rec = doRequest(r, "GET", "/api/v1/pending/other", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doRequest(r, "POST", "/api/v1/pending/pending-1/confirm", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["state"] != "committed" || len(result["transactions"].([]interface{})) != 1 {
		t.Errorf("unexpected confirm body %v", result)
	}

	rec = doRequest(r, "POST", "/api/v1/pending/done/confirm", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "INVALID_TRANSITION")

	rec = doRequest(r, "DELETE", "/api/v1/pending/pending-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = doRequest(r, "DELETE", "/api/v1/pending/other", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
