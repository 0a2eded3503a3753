package review_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/core/services"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/SscSPs/statement_review_app/internal/platform/config"
	"github.com/SscSPs/statement_review_app/internal/repositories/memory"
	"github.com/SscSPs/statement_review_app/internal/review"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
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

// gatedBackend holds Approve calls until release is closed.
type gatedBackend struct {
	review.Backend
	entered chan struct{}
	release chan struct{}
}

func (b *gatedBackend) Approve(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	close(b.entered)
	<-b.release
	return b.Backend.Approve(ctx, pendingID)
}

type SessionTestSuite struct {
	suite.Suite
	ctx       context.Context
	services  *portssvc.ServiceContainer
	ledger    *memory.LedgerRepository
	backend   *review.LocalBackend
	storePath string
}

func (suite *SessionTestSuite) SetupTest() {
	suite.ctx = context.Background()
	repos := memory.NewRepositoryProvider()
	suite.ledger = repos.LedgerRepo.(*memory.LedgerRepository)
	suite.services = services.NewServiceContainer(&config.Config{BatchConcurrency: 2}, repos, nil)
	suite.backend = review.NewLocalBackend(suite.services.Staging, suite.services.Approval, "reviewer-1")
	suite.storePath = filepath.Join(suite.T().TempDir(), "reviewctl.json")
}

func (suite *SessionTestSuite) newTracker() *review.Tracker {
	return review.NewTracker(review.NewFileBatchStore(suite.storePath))
}

func (suite *SessionTestSuite) uploadVia(session *review.Session, batchID string, txs ...dto.CandidateTransaction) {
	res, err := session.Upload(suite.ctx, dto.UploadRequest{
		SourceDocumentName: batchID + ".pdf",
		BatchID:            strPtr(batchID),
		Transactions:       txs,
	})
	suite.Require().NoError(err)
	suite.Require().Equal([]string{batchID}, res.BatchIDs)
}

func (suite *SessionTestSuite) ledgerEntries() []domain.LedgerEntry {
	entries, _, err := suite.services.Ledger.ListEntries(suite.ctx, domain.LedgerFilter{})
	suite.Require().NoError(err)
	return entries
}

func (suite *SessionTestSuite) TestUploadIsTrackedAndResumed() {
	first := review.NewSession(suite.backend, suite.newTracker())
	suite.uploadVia(first, "B1", buy("1"), buy("2"))

	resumed := review.NewSession(suite.backend, suite.newTracker())
	plan, err := resumed.Start(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal([]string{"B1"}, plan.BatchIDs)
	suite.Equal(2, plan.PendingCount)
	items := resumed.Items()
	suite.Require().Len(items, 2)
	suite.True(items[0].Record.Quantity.Equal(decimal.NewFromInt(1)), "created_at order")
}

func (suite *SessionTestSuite) TestStartFallsBackToUnfilteredQuery() {
	// staged by someone else, so nothing is tracked locally
	_, err := suite.services.Staging.StageUpload(suite.ctx, dto.UploadRequest{
		SourceDocumentName: "other.pdf",
		Transactions:       []dto.CandidateTransaction{buy("3")},
	}, "reviewer-2")
	suite.Require().NoError(err)

	session := review.NewSession(suite.backend, suite.newTracker())
	plan, err := session.Start(suite.ctx)

	suite.Require().NoError(err)
	suite.True(plan.Unfiltered)
	suite.Len(session.Items(), 1)
}

func (suite *SessionTestSuite) TestStartWithNothingToReview() {
	plan, err := review.NewSession(suite.backend, suite.newTracker()).Start(suite.ctx)
	suite.Require().NoError(err)
	suite.True(plan.Nothing)
}

func (suite *SessionTestSuite) TestStaleTrackedBatchIsDropped() {
	tracker := suite.newTracker()
	session := review.NewSession(suite.backend, tracker)
	suite.uploadVia(session, "B1", buy("1"))
	_, err := suite.services.Approval.RejectAll(suite.ctx, "B1", "reviewer-2")
	suite.Require().NoError(err)

	_, err = review.NewSession(suite.backend, tracker).Start(suite.ctx)

	suite.Require().NoError(err)
	ids, err := tracker.Outstanding(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(ids)
}

func (suite *SessionTestSuite) TestEditSaveThenApprove() {
	session := review.NewSession(suite.backend, suite.newTracker())
	suite.uploadVia(session, "B3", buy("10"))
	suite.Require().NoError(session.LoadBatches(suite.ctx, []string{"B3"}))
	id := session.Items()[0].Record.PendingID

	suite.Require().NoError(session.Edit(id, dto.UpdatePendingRequest{Quantity: decPtr("12")}))
	suite.Require().NoError(session.Edit(id, dto.UpdatePendingRequest{Quantity: decPtr("15"), ReviewNotes: strPtr("page 2")}))
	suite.ErrorIs(session.Approve(suite.ctx, id), review.ErrUnsavedChanges)

	saved, err := session.Save(suite.ctx, id)
	suite.Require().NoError(err)
	suite.True(saved.Quantity.Equal(decimal.NewFromInt(15)))
	item, ok := session.Item(id)
	suite.Require().True(ok)
	suite.Nil(item.Draft)

	suite.Require().NoError(session.Approve(suite.ctx, id))

	suite.Empty(session.Items())
	entries := suite.ledgerEntries()
	suite.Require().Len(entries, 1)
	suite.True(entries[0].Quantity.Equal(decimal.NewFromInt(15)))
	suite.Equal("page 2", entries[0].Notes)
}

func (suite *SessionTestSuite) TestFailedSaveKeepsDraft() {
	session := review.NewSession(suite.backend, nil)
	suite.uploadVia(session, "B4", buy("10"))
	suite.Require().NoError(session.Load(suite.ctx, domain.PendingFilter{}))
	id := session.Items()[0].Record.PendingID

	suite.Require().NoError(session.Edit(id, dto.UpdatePendingRequest{Quantity: decPtr("-5")}))
	_, err := session.Save(suite.ctx, id)

	suite.ErrorIs(err, apperrors.ErrValidation)
	item, _ := session.Item(id)
	suite.Require().NotNil(item.Draft)
	suite.True(item.Draft.Quantity.Equal(decimal.NewFromInt(-5)))
	suite.False(item.Processing)
	suite.ErrorIs(item.LastErr, apperrors.ErrValidation)
	suite.True(item.Record.Quantity.Equal(decimal.NewFromInt(10)))

	suite.Require().NoError(session.Edit(id, dto.UpdatePendingRequest{Quantity: decPtr("5")}))
	_, err = session.Save(suite.ctx, id)
	suite.NoError(err)
}

func (suite *SessionTestSuite) TestAlreadyHandledRecordIsDroppedQuietly() {
	session := review.NewSession(suite.backend, nil)
	suite.uploadVia(session, "B5", buy("1"), buy("2"))
	suite.Require().NoError(session.Load(suite.ctx, domain.PendingFilter{}))
	items := session.Items()

	_, err := suite.services.Approval.Reject(suite.ctx, items[0].Record.PendingID, "reviewer-2")
	suite.Require().NoError(err)

	suite.NoError(session.Approve(suite.ctx, items[0].Record.PendingID))
	left := session.Items()
	suite.Require().Len(left, 1)
	suite.Equal(items[1].Record.PendingID, left[0].Record.PendingID)
	suite.Empty(suite.ledgerEntries())
}

func (suite *SessionTestSuite) TestLedgerFailureStaysOnTheItem() {
	session := review.NewSession(suite.backend, nil)
	suite.uploadVia(session, "B6", buy("1"), buy("2"))
	suite.Require().NoError(session.Load(suite.ctx, domain.PendingFilter{}))
	items := session.Items()
	suite.ledger.FailInsert = func(domain.LedgerEntry) error { return errors.New("ledger offline") }

	err := session.Approve(suite.ctx, items[0].Record.PendingID)

	suite.ErrorIs(err, apperrors.ErrDependencyFailure)
	item, ok := session.Item(items[0].Record.PendingID)
	suite.Require().True(ok)
	suite.False(item.Processing)
	suite.ErrorIs(item.LastErr, apperrors.ErrDependencyFailure)
	other, _ := session.Item(items[1].Record.PendingID)
	suite.NoError(other.LastErr)

	suite.ledger.FailInsert = nil
	suite.NoError(session.Approve(suite.ctx, items[0].Record.PendingID))
}

func (suite *SessionTestSuite) TestSecondRequestWhileProcessingIsRefused() {
	gate := &gatedBackend{Backend: suite.backend, entered: make(chan struct{}), release: make(chan struct{})}
	session := review.NewSession(gate, nil)
	suite.uploadVia(session, "B7", buy("1"))
	suite.Require().NoError(session.Load(suite.ctx, domain.PendingFilter{}))
	id := session.Items()[0].Record.PendingID

	done := make(chan error, 1)
	go func() { done <- session.Approve(suite.ctx, id) }()
	<-gate.entered

	item, _ := session.Item(id)
	suite.True(item.Processing)
	suite.ErrorIs(session.Approve(suite.ctx, id), review.ErrItemProcessing)
	suite.ErrorIs(session.Reject(suite.ctx, id), review.ErrItemProcessing)
	suite.ErrorIs(session.Edit(id, dto.UpdatePendingRequest{Quantity: decPtr("2")}), review.ErrItemProcessing)
	_, err := session.ApproveAll(suite.ctx, "B7")
	suite.ErrorIs(err, review.ErrItemProcessing)

	close(gate.release)
	select {
	case err := <-done:
		suite.NoError(err)
	case <-time.After(5 * time.Second):
		suite.FailNow("approve did not finish")
	}
	suite.Len(suite.ledgerEntries(), 1)
}

func (suite *SessionTestSuite) TestApproveAllUntracksCompletedBatch() {
	tracker := suite.newTracker()
	session := review.NewSession(suite.backend, tracker)
	suite.uploadVia(session, "B8", buy("1"), buy("2"))
	suite.uploadVia(session, "B9", buy("3"))
	_, err := session.Start(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(session.Items(), 3)

	b8 := session.Items()[1].Record.PendingID
	suite.ledger.FailInsert = func(e domain.LedgerEntry) error {
		if e.SourcePendingID == b8 {
			return errors.New("ledger offline")
		}
		return nil
	}

	result, err := session.ApproveAll(suite.ctx, "B8")
	suite.Require().NoError(err)
	suite.Equal(1, result.Remaining)
	ids, _ := tracker.Outstanding(suite.ctx)
	suite.Equal([]string{"B8", "B9"}, ids, "incomplete batch stays tracked")
	failed, ok := session.Item(b8)
	suite.Require().True(ok)
	suite.ErrorIs(failed.LastErr, apperrors.ErrDependencyFailure)
	suite.Len(session.Items(), 2)

	suite.ledger.FailInsert = nil
	result, err = session.ApproveAll(suite.ctx, "B8")
	suite.Require().NoError(err)
	suite.True(result.Complete())
	ids, _ = tracker.Outstanding(suite.ctx)
	suite.Equal([]string{"B9"}, ids)
	suite.Len(session.Items(), 1)

	result, err = session.RejectAll(suite.ctx, "B9")
	suite.Require().NoError(err)
	suite.True(result.Complete())
	ids, _ = tracker.Outstanding(suite.ctx)
	suite.Empty(ids)
	suite.Empty(session.Items())
}

func (suite *SessionTestSuite) TestUnknownRecord() {
	session := review.NewSession(suite.backend, nil)
	suite.ErrorIs(session.Edit("nope", dto.UpdatePendingRequest{ReviewNotes: strPtr("x")}), apperrors.ErrNotFound)
	suite.ErrorIs(session.Approve(suite.ctx, "nope"), apperrors.ErrNotFound)
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func TestLocalBackend_Count(t *testing.T) {
	repos := memory.NewRepositoryProvider()
	container := services.NewServiceContainer(&config.Config{BatchConcurrency: 1}, repos, nil)
	backend := review.NewLocalBackend(container.Staging, container.Approval, "u1")

	_, err := backend.Upload(context.Background(), dto.UploadRequest{
		SourceDocumentName: "s.pdf",
		Transactions:       []dto.CandidateTransaction{buy("1"), buy("2")},
	})
	require.NoError(t, err)

	count, err := backend.Count(context.Background(), domain.PendingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
