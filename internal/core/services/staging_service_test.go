package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/core/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// --- Test Suite ---
type StagingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPendingRepository
	service  portssvc.StagingSvcFacade
}

func (suite *StagingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPendingRepository)
	suite.service = services.NewStagingService(suite.mockRepo,
		services.WithStagingClock(func() time.Time { return fixedNow }))
}

func pendingRecord(id string) *domain.PendingTransaction {
	buy := domain.Buy
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &domain.PendingTransaction{
		PendingID:          id,
		UploadBatchID:      "B1",
		SourceDocumentName: "june.pdf",
		TransactionDate:    &date,
		SecurityIdentifier: strPtr("US0378331005"),
		TransactionType:    &buy,
		Quantity:           decPtr("10"),
		Price:              decPtr("100"),
		CurrencyCode:       "USD",
		Status:             domain.StatusPending,
		AuditFields:        domain.AuditFields{CreatedAt: fixedNow, CreatedBy: "uploader"},
	}
}

// --- Test Cases ---

func (suite *StagingServiceTestSuite) TestStageUpload_Success() {
	ctx := context.Background()
	req := dto.UploadRequest{
		SourceDocumentName: "june.pdf",
		BatchID:            strPtr("B1"),
		Transactions: []dto.CandidateTransaction{
			{TransactionType: strPtr("buy"), Quantity: decPtr("1"), CurrencyCode: "usd"},
			{TransactionType: strPtr("SELL"), CurrencyCode: "USD"},
			{},
		},
	}

	suite.mockRepo.On("SavePendingBatch", ctx, mock.MatchedBy(func(records []domain.PendingTransaction) bool {
		if len(records) != 3 {
			return false
		}
		for i, r := range records {
			if r.UploadBatchID != "B1" || r.Status != domain.StatusPending || r.CreatedBy != "uploader" {
				return false
			}
			if i > 0 && !r.CreatedAt.After(records[i-1].CreatedAt) {
				return false
			}
		}
		return records[0].CurrencyCode == "USD" && *records[0].TransactionType == domain.Buy
	})).Return(nil).Once()

	res, err := suite.service.StageUpload(ctx, req, "uploader")

	suite.Require().NoError(err)
	suite.Equal([]string{"B1"}, res.BatchIDs)
	suite.Equal(3, res.PendingCount)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StagingServiceTestSuite) TestStageUpload_GeneratesBatchIDsPerDocument() {
	ctx := context.Background()
	req := dto.UploadRequest{
		Documents: []dto.UploadDocument{
			{SourceDocumentName: "a.pdf", Transactions: []dto.CandidateTransaction{{}}},
			{SourceDocumentName: "empty.pdf"},
			{SourceDocumentName: "b.pdf", Transactions: []dto.CandidateTransaction{{}, {}}},
		},
	}
	suite.mockRepo.On("SavePendingBatch", ctx, mock.AnythingOfType("[]domain.PendingTransaction")).Return(nil).Once()

	res, err := suite.service.StageUpload(ctx, req, "uploader")

	suite.Require().NoError(err)
	suite.Len(res.BatchIDs, 2, "documents without transactions create no batch")
	suite.NotEqual(res.BatchIDs[0], res.BatchIDs[1])
	_, parseErr := uuid.Parse(res.BatchIDs[0])
	suite.NoError(parseErr)
	suite.Equal(3, res.PendingCount)
}

func (suite *StagingServiceTestSuite) TestStageUpload_ValidationReportsEveryField() {
	ctx := context.Background()
	req := dto.UploadRequest{
		SourceDocumentName: "june.pdf",
		Transactions: []dto.CandidateTransaction{
			{Quantity: decPtr("-1")},
			{CurrencyCode: "QQQ"},
		},
	}

	res, err := suite.service.StageUpload(ctx, req, "uploader")

	suite.Require().Error(err)
	suite.Nil(res)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var verr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Len(verr.Fields, 2)
	suite.Equal("transactions[0].quantity", verr.Fields[0].Field)
	suite.Equal("transactions[1].currencyCode", verr.Fields[1].Field)
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePendingBatch", mock.Anything, mock.Anything)
}

func (suite *StagingServiceTestSuite) TestStageUpload_RepoError() {
	ctx := context.Background()
	req := dto.UploadRequest{SourceDocumentName: "june.pdf", Transactions: []dto.CandidateTransaction{{}}}
	suite.mockRepo.On("SavePendingBatch", ctx, mock.Anything).Return(assert.AnError).Once()

	res, err := suite.service.StageUpload(ctx, req, "uploader")

	suite.Require().Error(err)
	suite.Nil(res)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *StagingServiceTestSuite) TestUpdatePending_Success() {
	ctx := context.Background()
	suite.mockRepo.On("FindPendingByID", ctx, "p1").Return(pendingRecord("p1"), nil).Once()
	suite.mockRepo.On("UpdatePending", ctx, mock.MatchedBy(func(r domain.PendingTransaction) bool {
		return r.Quantity.Equal(decimal.NewFromInt(15)) && r.Price == nil &&
			r.LastUpdatedBy == "reviewer" && r.LastUpdatedAt.Equal(fixedNow)
	})).Return(nil).Once()

	updated, err := suite.service.UpdatePending(ctx, "p1", dto.UpdatePendingRequest{
		Quantity:    decPtr("15"),
		ClearFields: []string{domain.FieldPrice},
	}, "reviewer")

	suite.Require().NoError(err)
	suite.True(updated.Quantity.Equal(decimal.NewFromInt(15)))
	suite.Equal("uploader", updated.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StagingServiceTestSuite) TestUpdatePending_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindPendingByID", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdatePending(ctx, "nope", dto.UpdatePendingRequest{Quantity: decPtr("-5")}, "reviewer")

	suite.ErrorIs(err, apperrors.ErrNotFound, "NotFound wins over validation")
}

func (suite *StagingServiceTestSuite) TestUpdatePending_TerminalRecordIsInvalidState() {
	ctx := context.Background()
	record := pendingRecord("p1")
	record.Status = domain.StatusApproved
	suite.mockRepo.On("FindPendingByID", ctx, "p1").Return(record, nil).Once()

	_, err := suite.service.UpdatePending(ctx, "p1", dto.UpdatePendingRequest{Quantity: decPtr("-5")}, "reviewer")

	suite.ErrorIs(err, apperrors.ErrInvalidState, "InvalidState wins over validation")
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdatePending", mock.Anything, mock.Anything)
}

func (suite *StagingServiceTestSuite) TestUpdatePending_ValidationLeavesRecordUntouched() {
	ctx := context.Background()
	suite.mockRepo.On("FindPendingByID", ctx, "p1").Return(pendingRecord("p1"), nil).Once()

	_, err := suite.service.UpdatePending(ctx, "p1", dto.UpdatePendingRequest{
		Quantity: decPtr("-5"),
		Tax:      decPtr("-1"),
	}, "reviewer")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	var verr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Len(verr.Fields, 2)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdatePending", mock.Anything, mock.Anything)
}

func (suite *StagingServiceTestSuite) TestUpdatePending_EmptyRequestIsNoop() {
	ctx := context.Background()
	suite.mockRepo.On("FindPendingByID", ctx, "p1").Return(pendingRecord("p1"), nil).Once()

	updated, err := suite.service.UpdatePending(ctx, "p1", dto.UpdatePendingRequest{}, "reviewer")

	suite.Require().NoError(err)
	suite.Equal("p1", updated.PendingID)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdatePending", mock.Anything, mock.Anything)
}

func (suite *StagingServiceTestSuite) TestTransitionPending_RejectsNonTerminalTarget() {
	_, err := suite.service.TransitionPending(context.Background(), domain.TransitionRequest{
		PendingID: "p1",
		To:        domain.StatusPending,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StagingServiceTestSuite) TestTransitionPending_StampsTime() {
	ctx := context.Background()
	suite.mockRepo.On("TransitionPending", ctx, mock.MatchedBy(func(req domain.TransitionRequest) bool {
		return req.At.Equal(fixedNow) && req.To == domain.StatusRejected
	})).Return(pendingRecord("p1"), nil).Once()

	_, err := suite.service.TransitionPending(ctx, domain.TransitionRequest{PendingID: "p1", To: domain.StatusRejected})

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StagingServiceTestSuite) TestQueryPending_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockRepo.On("QueryPending", ctx, domain.PendingFilter{}).Return(nil, nil).Once()

	records, err := suite.service.QueryPending(ctx, domain.PendingFilter{})

	suite.Require().NoError(err)
	suite.NotNil(records)
	suite.Empty(records)
}

func (suite *StagingServiceTestSuite) TestListReviewEvents_WithoutEventStore() {
	ctx := context.Background()
	suite.mockRepo.On("FindPendingByID", ctx, "p1").Return(pendingRecord("p1"), nil).Once()

	events, err := suite.service.ListReviewEvents(ctx, "p1")

	suite.Require().NoError(err)
	suite.Empty(events)
}

// --- Run Test Suite ---
func TestStagingService(t *testing.T) {
	suite.Run(t, new(StagingServiceTestSuite))
}
