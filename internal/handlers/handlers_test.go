package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"gastocerto/internal/confirm"
	"gastocerto/internal/feed"
	"gastocerto/internal/ledger"
	"gastocerto/internal/logger"
	"gastocerto/internal/middleware"
	"gastocerto/internal/models"
	"gastocerto/internal/pagination"
	"gastocerto/internal/recognition"
	"gastocerto/internal/services"
	"gastocerto/internal/validator"
)

const testHousehold = "familia-1a2b3c4d"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// --- mock services ---

type mockTransactionService struct {
	listTransactionsFn         func(householdID string) ([]models.Transaction, error)
	getHouseholdTransactionsFn func(householdID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.Page[models.Transaction], error)
	getTransactionByIDFn       func(householdID, transactionID string) (*models.Transaction, error)
	createTransactionFn        func(householdID, ownerRef string, sub confirm.Submission) ([]models.Transaction, error)
	createBatchFn              func(householdID, ownerRef string, records []models.Transaction) ([]models.Transaction, error)
	deleteTransactionFn        func(householdID, transactionID string) error
	getSummaryFn               func(householdID string) (*ledger.Totals, error)
}

func (m *mockTransactionService) ListTransactions(householdID string) ([]models.Transaction, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(householdID)
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) GetHouseholdTransactions(householdID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.Page[models.Transaction], error) {
	if m.getHouseholdTransactionsFn != nil {
		return m.getHouseholdTransactionsFn(householdID, page, filter)
	}
	p := pagination.NewPage([]models.Transaction{}, page.Normalize(), 0)
	return &p, nil
}

func (m *mockTransactionService) GetTransactionByID(householdID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(householdID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) CreateTransaction(householdID, ownerRef string, sub confirm.Submission) ([]models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(householdID, ownerRef, sub)
	}
	return []models.Transaction{sub.Record}, nil
}

func (m *mockTransactionService) CreateBatch(householdID, ownerRef string, records []models.Transaction) ([]models.Transaction, error) {
	if m.createBatchFn != nil {
		return m.createBatchFn(householdID, ownerRef, records)
	}
	return records, nil
}

func (m *mockTransactionService) DeleteTransaction(householdID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(householdID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetSummary(householdID string) (*ledger.Totals, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(householdID)
	}
	totals := ledger.Aggregate(nil)
	return &totals, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

type mockEntryService struct {
	submitFn     func(householdID, ownerRef string, sub confirm.Submission) (*services.EntryOutcome, error)
	scanFn       func(ctx context.Context, householdID, ownerRef string, doc recognition.Document) (*services.EntryOutcome, error)
	getPendingFn func(householdID, pendingID string) (*services.EntryOutcome, error)
	confirmFn    func(householdID, pendingID string) (*services.EntryOutcome, error)
	cancelFn     func(householdID, pendingID string) error
}

func (m *mockEntryService) Submit(householdID, ownerRef string, sub confirm.Submission) (*services.EntryOutcome, error) {
	if m.submitFn != nil {
		return m.submitFn(householdID, ownerRef, sub)
	}
	return &services.EntryOutcome{State: confirm.Committed, Records: []models.Transaction{sub.Record}}, nil
}

func (m *mockEntryService) Scan(ctx context.Context, householdID, ownerRef string, doc recognition.Document) (*services.EntryOutcome, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, householdID, ownerRef, doc)
	}
	return &services.EntryOutcome{State: confirm.Committed}, nil
}

func (m *mockEntryService) GetPending(householdID, pendingID string) (*services.EntryOutcome, error) {
	if m.getPendingFn != nil {
		return m.getPendingFn(householdID, pendingID)
	}
	return &services.EntryOutcome{State: confirm.AwaitingConfirmation, PendingID: pendingID}, nil
}

func (m *mockEntryService) Confirm(householdID, pendingID string) (*services.EntryOutcome, error) {
	if m.confirmFn != nil {
		return m.confirmFn(householdID, pendingID)
	}
	return &services.EntryOutcome{State: confirm.Committed, PendingID: pendingID}, nil
}

func (m *mockEntryService) Cancel(householdID, pendingID string) error {
	if m.cancelFn != nil {
		return m.cancelFn(householdID, pendingID)
	}
	return nil
}

var _ services.EntryServicer = (*mockEntryService)(nil)

type mockImportService struct {
	beginFn   func(ctx context.Context, householdID string, doc recognition.Document) (*services.ImportReview, error)
	openFn    func(householdID string, candidates []models.Transaction) (*services.ImportReview, error)
	getFn     func(householdID, reviewID string) (*services.ImportReview, error)
	toggleFn  func(householdID, reviewID string, index int) (*services.ImportReview, error)
	commitFn  func(householdID, ownerRef, reviewID string) ([]models.Transaction, error)
	discardFn func(householdID, reviewID string) error
}

func (m *mockImportService) Begin(ctx context.Context, householdID string, doc recognition.Document) (*services.ImportReview, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx, householdID, doc)
	}
	return &services.ImportReview{ID: "review-1"}, nil
}

func (m *mockImportService) Open(householdID string, candidates []models.Transaction) (*services.ImportReview, error) {
	if m.openFn != nil {
		return m.openFn(householdID, candidates)
	}
	return &services.ImportReview{ID: "review-1"}, nil
}

func (m *mockImportService) Get(householdID, reviewID string) (*services.ImportReview, error) {
	if m.getFn != nil {
		return m.getFn(householdID, reviewID)
	}
	return &services.ImportReview{ID: reviewID}, nil
}

func (m *mockImportService) Toggle(householdID, reviewID string, index int) (*services.ImportReview, error) {
	if m.toggleFn != nil {
		return m.toggleFn(householdID, reviewID, index)
	}
	return &services.ImportReview{ID: reviewID}, nil
}

func (m *mockImportService) Commit(householdID, ownerRef, reviewID string) ([]models.Transaction, error) {
	if m.commitFn != nil {
		return m.commitFn(householdID, ownerRef, reviewID)
	}
	return []models.Transaction{}, nil
}

func (m *mockImportService) Discard(householdID, reviewID string) error {
	if m.discardFn != nil {
		return m.discardFn(householdID, reviewID)
	}
	return nil
}

var _ services.ImportServicer = (*mockImportService)(nil)

type mockDescriptionService struct {
	listDescriptionsFn func(householdID string) ([]models.DescriptionTag, error)
	addDescriptionFn   func(householdID, name string) (*models.DescriptionTag, error)
}

func (m *mockDescriptionService) ListDescriptions(householdID string) ([]models.DescriptionTag, error) {
	if m.listDescriptionsFn != nil {
		return m.listDescriptionsFn(householdID)
	}
	return []models.DescriptionTag{}, nil
}

func (m *mockDescriptionService) AddDescription(householdID, name string) (*models.DescriptionTag, error) {
	if m.addDescriptionFn != nil {
		return m.addDescriptionFn(householdID, name)
	}
	return &models.DescriptionTag{HouseholdID: householdID, Name: name}, nil
}

var _ services.DescriptionServicer = (*mockDescriptionService)(nil)

// --- test helpers ---

// setupRouter fills any missing service with an empty mock.
func setupRouter(svc Services) *gin.Engine {
	if svc.Transactions == nil {
		svc.Transactions = &mockTransactionService{}
	}
	if svc.Entries == nil {
		svc.Entries = &mockEntryService{}
	}
	if svc.Imports == nil {
		svc.Imports = &mockImportService{}
	}
	if svc.Descriptions == nil {
		svc.Descriptions = &mockDescriptionService{}
	}
	if svc.Broker == nil {
		svc.Broker = feed.NewBroker()
	}
	return NewRouter(svc)
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HouseholdHeader, testHousehold)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// doUpload posts data as the multipart "document" field.
func doUpload(t *testing.T, r *gin.Engine, path, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="document"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(middleware.HouseholdHeader, testHousehold)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v", code, errObj["code"])
	}
}

func doRequestWithoutHousehold(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
