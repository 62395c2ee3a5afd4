package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/importplan"
	"gastocerto/internal/models"
	"gastocerto/internal/recognition"
	"gastocerto/internal/services"
	"gastocerto/internal/testutil"
)

func sampleReview() *services.ImportReview {
	return &services.ImportReview{
		ID: "review-1",
		Items: []services.ImportItem{
			{Index: 0, Candidate: testutil.Candidate("Mercado", "350.40", "2024-03-10"), Selected: true},
			{Index: 1, Candidate: testutil.Candidate("Aluguel", "1200", "2024-03-05"), IsDuplicate: true},
		},
		SelectedCount:  1,
		DuplicateCount: 1,
	}
}

func TestImportHandler_BeginImport(t *testing.T) {
	t.Run("recognizes an uploaded statement", func(t *testing.T) {
		imports := &mockImportService{
			beginFn: func(_ context.Context, householdID string, doc recognition.Document) (*services.ImportReview, error) {
				if doc.MIMEType != "application/pdf" {
					t.Errorf("unexpected mime type %s", doc.MIMEType)
				}
				return sampleReview(), nil
			},
		}
		r := setupRouter(Services{Imports: imports})

		rec := doUpload(t, r, "/api/v1/imports", "extrato.pdf", "application/pdf", []byte("%PDF-1.4 statement"))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["id"] != "review-1" || result["selected_count"].(float64) != 1 || result["duplicate_count"].(float64) != 1 {
			t.Errorf("unexpected review %v", result)
		}
		items := result["items"].([]interface{})
		second := items[1].(map[string]interface{})
		if second["is_duplicate"] != true || second["selected"] != false {
			t.Errorf("unexpected duplicate item %v", second)
		}
	})

	t.Run("opens a review over JSON lines", func(t *testing.T) {
		var got []models.Transaction
		imports := &mockImportService{
			openFn: func(_ string, candidates []models.Transaction) (*services.ImportReview, error) {
				got = candidates
				return sampleReview(), nil
			},
		}
		r := setupRouter(Services{Imports: imports})

		rec := doRequest(r, "POST", "/api/v1/imports",
			`{"lines":[{"description":"Mercado","amount":"350.40","date":"2024-03-10","kind":"expense"},{"description":"Salário","amount":"5000","date":"2024-03-01","kind":"income"}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(got) != 2 || got[1].Kind != models.KindIncome {
			t.Errorf("unexpected candidates %+v", got)
		}
	})

	t.Run("rejects an empty line list", func(t *testing.T) {
		r := setupRouter(Services{})
		rec := doRequest(r, "POST", "/api/v1/imports", `{"lines":[]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestImportHandler_Review(t *testing.T) {
	var committedBy string
	imports := &mockImportService{
		getFn: func(_, id string) (*services.ImportReview, error) {
			if id != "review-1" {
				return nil, apperrors.ErrReviewNotFound
			}
			return sampleReview(), nil
		},
		toggleFn: func(_, _ string, index int) (*services.ImportReview, error) {
			if index > 1 {
				return nil, apperrors.Invalid(importplan.ErrIndexOutOfRange)
			}
			review := sampleReview()
			review.Items[index].Selected = !review.Items[index].Selected
			return review, nil
		},
		commitFn: func(_, ownerRef, id string) ([]models.Transaction, error) {
			if id == "broken" {
				return nil, apperrors.Wrap(apperrors.ErrPersistenceFailure, errors.New("constraint"))
			}
			committedBy = ownerRef
			return []models.Transaction{testutil.Candidate("Mercado", "350.40", "2024-03-10")}, nil
		},
	}
	r := setupRouter(Services{Imports: imports})

	rec := doRequest(r, "GET", "/api/v1/imports/review-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = doRequest(r, "GET", "/api/v1/imports/other", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doRequest(r, "POST", "/api/v1/imports/review-1/toggle/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items := parseJSON(t, rec)["items"].([]interface{})
	if items[1].(map[string]interface{})["selected"] != true {
		t.Errorf("expected line 1 selected after toggle")
	}

	for _, path := range []string{"/api/v1/imports/review-1/toggle/7", "/api/v1/imports/review-1/toggle/-1", "/api/v1/imports/review-1/toggle/x"} {
		rec = doRequest(r, "POST", path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}

	rec = doRequest(r, "POST", "/api/v1/imports/review-1/commit", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if committedBy != "anonymous" {
		t.Errorf("expected anonymous owner, got %s", committedBy)
	}
	if len(parseJSON(t, rec)["transactions"].([]interface{})) != 1 {
		t.Errorf("expected one committed record")
	}

	rec = doRequest(r, "POST", "/api/v1/imports/broken/commit", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "PERSISTENCE_FAILURE")

	rec = doRequest(r, "DELETE", "/api/v1/imports/review-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
