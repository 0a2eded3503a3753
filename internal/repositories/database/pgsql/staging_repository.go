package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
	"github.com/SscSPs/statement_review_app/internal/models"
	"github.com/SscSPs/statement_review_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pendingColumns = `pending_id, upload_batch_id, source_document_name, transaction_date, transaction_time,
	security_identifier, display_name, transaction_type, quantity, price, amount, commission, tax, exchange_rate,
	currency_code, status, review_notes, ledger_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxStagingRepository struct {
	BaseRepository
}

// newPgxStagingRepository creates a new repository for staged transactions.
func newPgxStagingRepository(pool *pgxpool.Pool) *PgxStagingRepository {
	return &PgxStagingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PendingRepositoryFacade = (*PgxStagingRepository)(nil)

// SavePendingBatch inserts every record of an upload in one transaction.
func (r *PgxStagingRepository) SavePendingBatch(ctx context.Context, records []domain.PendingTransaction) error {
	if len(records) == 0 {
		return nil
	}
	query := `INSERT INTO pending_transactions (` + pendingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`

	return r.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, record := range records {
			m := mapping.ToModelPendingTransaction(record)
			batch.Queue(query,
				m.PendingID, m.UploadBatchID, m.SourceDocumentName, m.TransactionDate, m.TransactionTime,
				m.SecurityIdentifier, m.DisplayName, m.TransactionType, m.Quantity, m.Price, m.Amount,
				m.Commission, m.Tax, m.ExchangeRate, m.CurrencyCode, m.Status, m.ReviewNotes, m.LedgerEntryID,
				m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("pending transaction id reused: %w", apperrors.ErrDuplicate)
			}
			return fmt.Errorf("failed to insert pending transactions: %w", err)
		}
		return nil
	})
}

// FindPendingByID retrieves one staged record.
func (r *PgxStagingRepository) FindPendingByID(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	if !validID(pendingID) {
		return nil, apperrors.ErrNotFound
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+pendingColumns+` FROM pending_transactions WHERE pending_id = $1;`, pendingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending transaction %s: %w", pendingID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PendingTransaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan pending transaction %s: %w", pendingID, err)
	}
	record := mapping.ToDomainPendingTransaction(m)
	return &record, nil
}

// QueryPending lists records matching the filter in created_at order.
func (r *PgxStagingRepository) QueryPending(ctx context.Context, filter domain.PendingFilter) ([]domain.PendingTransaction, error) {
	query := `SELECT ` + pendingColumns + `
		FROM pending_transactions
		WHERE status = $1 AND ($2::text IS NULL OR upload_batch_id = $2)
		ORDER BY created_at ASC, pending_id ASC;`
	rows, err := r.Pool.Query(ctx, query, string(filter.EffectiveStatus()), filter.BatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending transactions: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PendingTransaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending transactions: %w", err)
	}
	return mapping.ToDomainPendingTransactionSlice(ms), nil
}

// CountPending counts records matching the filter.
func (r *PgxStagingRepository) CountPending(ctx context.Context, filter domain.PendingFilter) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM pending_transactions
		WHERE status = $1 AND ($2::text IS NULL OR upload_batch_id = $2);`,
		string(filter.EffectiveStatus()), filter.BatchID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending transactions: %w", err)
	}
	return count, nil
}

// ListBatchSummaries lists batches with pending records, oldest first.
func (r *PgxStagingRepository) ListBatchSummaries(ctx context.Context) ([]domain.BatchSummary, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT upload_batch_id, COUNT(*)::int AS pending_count, MIN(created_at) AS first_staged_at
		FROM pending_transactions
		WHERE status = 'pending'
		GROUP BY upload_batch_id
		ORDER BY first_staged_at ASC, upload_batch_id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding batches: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BatchSummary])
	if err != nil {
		return nil, fmt.Errorf("failed to scan outstanding batches: %w", err)
	}
	return mapping.ToDomainBatchSummarySlice(ms), nil
}

// UpdatePending overwrites the editable columns. The status guard lives in the WHERE clause,
// so an edit racing a transition can never land on a terminal record.
func (r *PgxStagingRepository) UpdatePending(ctx context.Context, record domain.PendingTransaction) error {
	if !validID(record.PendingID) {
		return apperrors.ErrNotFound
	}
	m := mapping.ToModelPendingTransaction(record)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE pending_transactions SET
			transaction_date = $2, transaction_time = $3, security_identifier = $4, display_name = $5,
			transaction_type = $6, quantity = $7, price = $8, amount = $9, commission = $10, tax = $11,
			exchange_rate = $12, currency_code = $13, review_notes = $14,
			last_updated_at = $15, last_updated_by = $16
		WHERE pending_id = $1 AND status = 'pending';`,
		m.PendingID, m.TransactionDate, m.TransactionTime, m.SecurityIdentifier, m.DisplayName,
		m.TransactionType, m.Quantity, m.Price, m.Amount, m.Commission, m.Tax,
		m.ExchangeRate, m.CurrencyCode, m.ReviewNotes,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update pending transaction %s: %w", record.PendingID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.guardFailure(ctx, record.PendingID)
	}
	return nil
}

// TransitionPending moves a pending record into a terminal status.
func (r *PgxStagingRepository) TransitionPending(ctx context.Context, req domain.TransitionRequest) (*domain.PendingTransaction, error) {
	if !validID(req.PendingID) {
		return nil, apperrors.ErrNotFound
	}
	rows, err := r.Pool.Query(ctx, `
		UPDATE pending_transactions SET
			status = $2, ledger_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE pending_id = $1 AND status = 'pending'
		RETURNING `+pendingColumns+`;`,
		req.PendingID, string(req.To), req.LedgerEntryID, req.At, req.ActorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to transition pending transaction %s: %w", req.PendingID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PendingTransaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.guardFailure(ctx, req.PendingID)
		}
		return nil, fmt.Errorf("failed to scan transitioned pending transaction %s: %w", req.PendingID, err)
	}
	record := mapping.ToDomainPendingTransaction(m)
	return &record, nil
}

// guardFailure explains why a status-guarded write touched no rows.
func (r *PgxStagingRepository) guardFailure(ctx context.Context, pendingID string) error {
	var status string
	err := r.Pool.QueryRow(ctx, `SELECT status FROM pending_transactions WHERE pending_id = $1;`, pendingID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to read status of pending transaction %s: %w", pendingID, err)
	}
	return fmt.Errorf("pending transaction %s is %s: %w", pendingID, status, apperrors.ErrInvalidState)
}
