package client_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/client"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/core/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/SscSPs/statement_review_app/internal/handlers"
	"github.com/SscSPs/statement_review_app/internal/platform/config"
	"github.com/SscSPs/statement_review_app/internal/repositories/memory"
	"github.com/SscSPs/statement_review_app/internal/review"
	"github.com/SscSPs/statement_review_app/internal/utils/validation"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "client-test-secret"

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func token(t *testing.T, userID string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.InstallGin()
	cfg := &config.Config{JWTSecret: testSecret, IsProduction: true, BatchConcurrency: 2}
	container := services.NewServiceContainer(cfg, memory.NewRepositoryProvider(), nil)
	r := gin.New()
	handlers.RegisterRoutes(r, cfg, container, nil, nil)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func buy(qty string) dto.CandidateTransaction {
	return dto.CandidateTransaction{
		TransactionDate:    strPtr("2024-06-01"),
		SecurityIdentifier: strPtr("US0378331005"),
		TransactionType:    strPtr("BUY"),
		Quantity:           decPtr(qty),
		Price:              decPtr("100"),
		CurrencyCode:       "USD",
	}
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	c := client.New(srv.URL+"/api/v1", token(t, "reviewer-1"))

	up, err := c.Upload(ctx, dto.UploadRequest{
		SourceDocumentName: "june.pdf",
		BatchID:            strPtr("B1"),
		Transactions:       []dto.CandidateTransaction{buy("10"), buy("20")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"B1"}, up.BatchIDs)
	assert.Equal(t, 2, up.PendingCount)

	batch := "B1"
	records, err := c.Query(ctx, domain.PendingFilter{BatchID: &batch})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.StatusPending, records[0].Status)
	require.NotNil(t, records[0].TransactionDate)
	assert.Equal(t, 2024, records[0].TransactionDate.Year())

	count, err := c.Count(ctx, domain.PendingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = c.Update(ctx, records[0].PendingID, dto.UpdatePendingRequest{Quantity: decPtr("-1")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.FieldQuantity, verr.Fields[0].Field)

	approved, err := c.Approve(ctx, records[0].PendingID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.NotNil(t, approved.LedgerEntryID)

	_, err = c.Reject(ctx, records[0].PendingID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	batches, err := c.OutstandingBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 1, batches[0].PendingCount)

	result, err := c.RejectAll(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, []string{records[1].PendingID}, result.Succeeded)
	assert.True(t, result.Complete())
}

func TestClient_Unauthorized(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL+"/api/v1", "not-a-token")

	_, err := c.Count(context.Background(), domain.PendingFilter{})

	assert.ErrorIs(t, err, client.ErrUnauthorized)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestClient_DrivesReviewSession(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	c := client.New(srv.URL+"/api/v1", token(t, "reviewer-1"), client.WithTimeout(5*time.Second))
	store := &memoryStore{}
	session := review.NewSession(c, review.NewTracker(store))

	_, err := session.Upload(ctx, dto.UploadRequest{
		SourceDocumentName: "july.pdf",
		BatchID:            strPtr("B2"),
		Transactions:       []dto.CandidateTransaction{buy("10")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"B2"}, store.ids)

	plan, err := session.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B2"}, plan.BatchIDs)
	id := session.Items()[0].Record.PendingID

	require.NoError(t, session.Edit(id, dto.UpdatePendingRequest{Quantity: decPtr("15")}))
	_, err = session.Save(ctx, id)
	require.NoError(t, err)

	result, err := session.ApproveAll(ctx, "B2")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, result.Succeeded)
	assert.Empty(t, store.ids)
	assert.Empty(t, session.Items())
}

type memoryStore struct {
	ids []string
}

func (s *memoryStore) Load(context.Context) ([]string, error) {
	return append([]string{}, s.ids...), nil
}

func (s *memoryStore) Save(_ context.Context, ids []string) error {
	s.ids = append([]string{}, ids...)
	return nil
}
