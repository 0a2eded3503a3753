package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/core/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/SscSPs/statement_review_app/internal/handlers"
	"github.com/SscSPs/statement_review_app/internal/middleware"
	"github.com/SscSPs/statement_review_app/internal/platform/config"
	"github.com/SscSPs/statement_review_app/internal/platform/metrics"
	"github.com/SscSPs/statement_review_app/internal/repositories/memory"
	"github.com/SscSPs/statement_review_app/internal/utils/validation"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret"

// --- Mock BatchDispositionQueue ---
type MockBatchQueue struct {
	mock.Mock
}

func (m *MockBatchQueue) EnqueueBatchDisposition(ctx context.Context, action domain.BatchAction, batchID string, userID string) (*dto.BatchEnqueuedResponse, error) {
	args := m.Called(ctx, action, batchID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchEnqueuedResponse), args.Error(1)
}

var _ portssvc.BatchDispositionQueue = (*MockBatchQueue)(nil)

func generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		panic(fmt.Sprintf("failed to sign test token: %v", err))
	}
	return signed
}

// --- Test Suite ---
type ReviewAPITestSuite struct {
	suite.Suite
	router *gin.Engine
	ledger *memory.LedgerRepository
	queue  *MockBatchQueue
	token  string
}

func (suite *ReviewAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	validation.InstallGin()

	repos := memory.NewRepositoryProvider()
	suite.ledger = repos.LedgerRepo.(*memory.LedgerRepository)
	cfg := &config.Config{JWTSecret: testSecret, IsProduction: true, BatchConcurrency: 2}
	m := metrics.NewMetrics()
	container := services.NewServiceContainer(cfg, repos, m)
	suite.queue = new(MockBatchQueue)
	container.BatchQueue = suite.queue

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	handlers.RegisterRoutes(suite.router, cfg, container, m, nil)
	suite.token = generateTestToken("reviewer-1")
}

func (suite *ReviewAPITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if suite.token != "" {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](suite *ReviewAPITestSuite, rec *httptest.ResponseRecorder) T {
	var out T
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (suite *ReviewAPITestSuite) upload(batchID string, transactions ...map[string]any) []dto.PendingTransactionResponse {
	rec := suite.do(http.MethodPost, "/api/v1/upload", map[string]any{
		"sourceDocumentName": batchID + ".pdf",
		"batchId":            batchID,
		"transactions":       transactions,
	})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = suite.do(http.MethodGet, "/api/v1/pending?batch_id="+batchID, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	return decode[dto.ListPendingResponse](suite, rec).Transactions
}

func buy(qty string) map[string]any {
	return map[string]any{
		"transactionDate":    "2024-06-01",
		"securityIdentifier": "US0378331005",
		"transactionType":    "BUY",
		"quantity":           qty,
		"price":              "100",
		"currencyCode":       "USD",
	}
}

// --- Test Cases ---

func (suite *ReviewAPITestSuite) TestHealthAndMetricsArePublic() {
	suite.token = ""
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/health", nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/metrics", nil).Code)
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/api/v1/pending", nil).Code)
}

func (suite *ReviewAPITestSuite) TestUploadListAndCount() {
	items := suite.upload("B1", buy("1"), buy("2"), map[string]any{"notes": "unreadable row"})
	suite.Require().Len(items, 3)
	suite.Equal("pending", items[0].Status)
	suite.Equal("B1", items[0].UploadBatchID)
	suite.Equal("2024-06-01", *items[0].TransactionDate)

	rec := suite.do(http.MethodGet, "/api/v1/pending/count?batch_id=B1&status=pending", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Equal(3, decode[dto.CountResponse](suite, rec).Count)

	rec = suite.do(http.MethodGet, "/api/v1/batches/outstanding", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	batches := decode[dto.OutstandingBatchesResponse](suite, rec).Batches
	suite.Require().Len(batches, 1)
	suite.Equal(3, batches[0].PendingCount)
}

func (suite *ReviewAPITestSuite) TestUploadValidationReportsFields() {
	rec := suite.do(http.MethodPost, "/api/v1/upload", map[string]any{
		"transactions": []map[string]any{{"transactionDate": "01/06/2024"}},
	})

	suite.Require().Equal(http.StatusBadRequest, rec.Code)
	body := decode[dto.ErrorResponse](suite, rec)
	suite.Equal(apperrors.CodeValidationFailed, body.Code)
	fields := map[string]bool{}
	for _, f := range body.Fields {
		fields[f.Field] = true
	}
	suite.True(fields["sourceDocumentName"], body.Fields)
	suite.True(fields["transactions[0].transactionDate"], body.Fields)
}

func (suite *ReviewAPITestSuite) TestListRejectsUnknownStatus() {
	rec := suite.do(http.MethodGet, "/api/v1/pending?status=archived", nil)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ReviewAPITestSuite) TestEditThenApprove() {
	items := suite.upload("B2", buy("10"))
	id := items[0].PendingID

	rec := suite.do(http.MethodPut, "/api/v1/pending/"+id, map[string]any{"quantity": "15"})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Equal("15", decode[dto.PendingTransactionResponse](suite, rec).Quantity.String())

	rec = suite.do(http.MethodPost, "/api/v1/pending/"+id+"/approve", nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[dto.PendingTransactionResponse](suite, rec)
	suite.Equal("approved", approved.Status)
	suite.NotNil(approved.LedgerEntryID)

	rec = suite.do(http.MethodGet, "/api/v1/ledger/entries?batch_id=B2", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	entries := decode[dto.ListLedgerEntriesResponse](suite, rec).Entries
	suite.Require().Len(entries, 1)
	suite.Equal("15", entries[0].Quantity.String())

	rec = suite.do(http.MethodGet, "/api/v1/pending/"+id+"/events", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Len(decode[dto.ReviewEventsResponse](suite, rec).Events, 2)

	rec = suite.do(http.MethodGet, "/api/v1/ledger/holdings", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Len(decode[dto.ListHoldingsResponse](suite, rec).Holdings, 1)
}

func (suite *ReviewAPITestSuite) TestDispositionErrors() {
	items := suite.upload("B3", buy("1"), map[string]any{"currencyCode": "USD"})

	rec := suite.do(http.MethodPost, "/api/v1/pending/"+items[1].PendingID+"/approve", nil)
	suite.Equal(http.StatusBadRequest, rec.Code, "incomplete record")

	rec = suite.do(http.MethodPost, "/api/v1/pending/"+items[0].PendingID+"/reject", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPost, "/api/v1/pending/"+items[0].PendingID+"/approve", nil)
	suite.Equal(http.StatusConflict, rec.Code)
	suite.Equal(apperrors.CodeInvalidState, decode[dto.ErrorResponse](suite, rec).Code)

	rec = suite.do(http.MethodPut, "/api/v1/pending/"+items[0].PendingID, map[string]any{"quantity": "3"})
	suite.Equal(http.StatusConflict, rec.Code)

	rec = suite.do(http.MethodGet, "/api/v1/pending/does-not-exist", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal(apperrors.CodeNotFound, decode[dto.ErrorResponse](suite, rec).Code)

	rec = suite.do(http.MethodPost, "/api/v1/pending/does-not-exist/approve", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *ReviewAPITestSuite) TestIncompleteRecordApprovesOnceCompleted() {
	items := suite.upload("B5", map[string]any{"currencyCode": "USD", "securityIdentifier": "US0378331005"})
	id := items[0].PendingID

	rec := suite.do(http.MethodPost, "/api/v1/pending/"+id+"/approve", nil)
	suite.Require().Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
	body := decode[dto.ErrorResponse](suite, rec)
	suite.Equal(apperrors.CodeValidationFailed, body.Code)
	var fields []string
	for _, f := range body.Fields {
		fields = append(fields, f.Field)
	}
	suite.Equal([]string{domain.FieldTransactionDate, domain.FieldTransactionType}, fields)

	rec = suite.do(http.MethodGet, "/api/v1/ledger/entries?batch_id=B5", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Empty(decode[dto.ListLedgerEntriesResponse](suite, rec).Entries)

	rec = suite.do(http.MethodPut, "/api/v1/pending/"+id, map[string]any{
		"transactionDate": "2024-06-03",
		"transactionType": "BUY",
		"quantity":        "2",
		"price":           "50",
	})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = suite.do(http.MethodPost, "/api/v1/pending/"+id+"/approve", nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Equal("approved", decode[dto.PendingTransactionResponse](suite, rec).Status)
}

func (suite *ReviewAPITestSuite) TestApproveLedgerFailureIsBadGateway() {
	items := suite.upload("B4", buy("1"))
	suite.ledger.FailInsert = func(domain.LedgerEntry) error { return fmt.Errorf("disk full") }

	rec := suite.do(http.MethodPost, "/api/v1/pending/"+items[0].PendingID+"/approve", nil)

	suite.Equal(http.StatusBadGateway, rec.Code)
	suite.Equal(apperrors.CodeDependencyFailure, decode[dto.ErrorResponse](suite, rec).Code)
	rec = suite.do(http.MethodGet, "/api/v1/pending/"+items[0].PendingID, nil)
	suite.Equal("pending", decode[dto.PendingTransactionResponse](suite, rec).Status)
}

func (suite *ReviewAPITestSuite) TestApproveAllReportsPerItem() {
	items := suite.upload("B5", buy("1"), buy("2"), buy("3"))
	suite.ledger.FailInsert = func(e domain.LedgerEntry) error {
		if e.SourcePendingID == items[1].PendingID {
			return fmt.Errorf("ledger offline")
		}
		return nil
	}

	rec := suite.do(http.MethodPost, "/api/v1/batch/B5/approve-all", nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	result := decode[domain.BatchResult](suite, rec)
	suite.Equal([]string{items[0].PendingID, items[2].PendingID}, result.Succeeded)
	suite.Require().Len(result.Failed, 1)
	suite.Equal(items[1].PendingID, result.Failed[0].PendingID)
	suite.Equal(apperrors.CodeDependencyFailure, result.Failed[0].Code)
	suite.Equal(1, result.Remaining)

	rec = suite.do(http.MethodPost, "/api/v1/batch/B5/reject-all", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Equal(0, decode[domain.BatchResult](suite, rec).Remaining)
}

func (suite *ReviewAPITestSuite) TestAsyncBatchIsQueued() {
	suite.queue.On("EnqueueBatchDisposition", mock.Anything, domain.ActionApproveAll, "B6", "reviewer-1").
		Return(&dto.BatchEnqueuedResponse{TaskID: "t1", Queue: "default", BatchID: "B6", Action: "approve-all"}, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/batch/B6/approve-all?async=true", nil)

	suite.Require().Equal(http.StatusAccepted, rec.Code)
	suite.Equal("t1", decode[dto.BatchEnqueuedResponse](suite, rec).TaskID)
	suite.queue.AssertExpectations(suite.T())
}

func (suite *ReviewAPITestSuite) TestLedgerEntriesRejectsBadToken() {
	rec := suite.do(http.MethodGet, "/api/v1/ledger/entries?next_token=%25%25", nil)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

// --- Run Test Suite ---
func TestReviewAPI(t *testing.T) {
	suite.Run(t, new(ReviewAPITestSuite))
}
