package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func staged(id, batch string, offset time.Duration) domain.PendingTransaction {
	return domain.PendingTransaction{
		PendingID:     id,
		UploadBatchID: batch,
		CurrencyCode:  "USD",
		Status:        domain.StatusPending,
		AuditFields:   domain.AuditFields{CreatedAt: base.Add(offset), LastUpdatedAt: base.Add(offset)},
	}
}

func TestStagingRepository_QueryOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStagingRepository()
	require.NoError(t, repo.SavePendingBatch(ctx, []domain.PendingTransaction{
		staged("c", "B1", 2*time.Second),
		staged("a", "B1", 0),
		staged("b", "B2", time.Second),
	}))

	all, err := repo.QueryPending(ctx, domain.PendingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].PendingID, all[1].PendingID, all[2].PendingID})

	n, err := repo.CountPending(ctx, domain.BatchFilter("B1"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = repo.TransitionPending(ctx, domain.TransitionRequest{PendingID: "a", To: domain.StatusRejected, At: base})
	require.NoError(t, err)

	n, err = repo.CountPending(ctx, domain.BatchFilter("B1"))
	require.NoError(t, err)
	assert.Equal(t, 1, n, "terminal records drop out of the default view")

	rejected := domain.StatusRejected
	gone, err := repo.QueryPending(ctx, domain.PendingFilter{Status: &rejected})
	require.NoError(t, err)
	require.Len(t, gone, 1)
	assert.Equal(t, "a", gone[0].PendingID)

	summaries, err := repo.ListBatchSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "B2", summaries[0].BatchID)
	assert.Equal(t, 1, summaries[1].PendingCount)
}

func TestStagingRepository_Guards(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStagingRepository()
	require.NoError(t, repo.SavePendingBatch(ctx, []domain.PendingTransaction{staged("p1", "B1", 0)}))

	assert.ErrorIs(t, repo.SavePendingBatch(ctx, []domain.PendingTransaction{staged("p1", "B1", 0)}), apperrors.ErrDuplicate)

	_, err := repo.FindPendingByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.TransitionPending(ctx, domain.TransitionRequest{PendingID: "p1", To: domain.StatusApproved, At: base})
	require.NoError(t, err)

	_, err = repo.TransitionPending(ctx, domain.TransitionRequest{PendingID: "p1", To: domain.StatusRejected, At: base})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	record := staged("p1", "B1", 0)
	record.ReviewNotes = "late edit"
	assert.ErrorIs(t, repo.UpdatePending(ctx, record), apperrors.ErrInvalidState)

	stored, err := repo.FindPendingByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	assert.Empty(t, stored.ReviewNotes)
}

func TestStagingRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStagingRepository()
	record := staged("p1", "B1", 0)
	qty := decimal.NewFromInt(5)
	record.Quantity = &qty
	require.NoError(t, repo.SavePendingBatch(ctx, []domain.PendingTransaction{record}))

	qty = decimal.NewFromInt(7)
	got, err := repo.FindPendingByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(5)))

	*got.Quantity = decimal.NewFromInt(9)
	again, err := repo.FindPendingByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, again.Quantity.Equal(decimal.NewFromInt(5)))
}

func tradeEntry(id, source string, ty domain.TransactionType, qty int64, offset time.Duration) domain.LedgerEntry {
	sec := "US0378331005"
	q := decimal.NewFromInt(qty)
	return domain.LedgerEntry{
		EntryID:            id,
		SourcePendingID:    source,
		SourceBatchID:      "B1",
		Kind:               domain.KindTrade,
		TransactionType:    ty,
		SecurityIdentifier: &sec,
		Quantity:           &q,
		Amount:             q.Mul(decimal.NewFromInt(10)),
		CurrencyCode:       "USD",
		AuditFields:        domain.AuditFields{CreatedAt: base.Add(offset)},
	}
}

func TestLedgerRepository_InsertIsIdempotentPerSource(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()

	first, created, err := repo.InsertApproved(ctx, tradeEntry("e1", "p1", domain.Buy, 10, 0))
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.InsertApproved(ctx, tradeEntry("e2", "p1", domain.Buy, 10, 0))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.EntryID, second.EntryID)

	holdings, err := repo.ListHoldings(ctx)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.True(t, holdings[0].Quantity.Equal(decimal.NewFromInt(10)), "duplicate insert must not double the position")

	require.NoError(t, repo.RemoveBySource(ctx, "p1"))
	require.NoError(t, repo.RemoveBySource(ctx, "p1"))
	_, err = repo.FindEntryBySource(ctx, "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	holdings, err = repo.ListHoldings(ctx)
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestLedgerRepository_ListEntriesPages(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	for i, id := range []string{"e1", "e2", "e3"} {
		_, _, err := repo.InsertApproved(ctx, tradeEntry(id, "p"+id, domain.Buy, 1, time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	page, next, err := repo.ListEntries(ctx, domain.LedgerFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, "e1", page[0].EntryID)

	page, next, err = repo.ListEntries(ctx, domain.LedgerFilter{Limit: 2, NextToken: next})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Nil(t, next)
	assert.Equal(t, "e3", page[0].EntryID)

	bad := "%%%"
	_, _, err = repo.ListEntries(ctx, domain.LedgerFilter{Limit: 2, NextToken: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
