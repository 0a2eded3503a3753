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
	"github.com/SscSPs/statement_review_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerColumns = `entry_id, source_pending_id, source_batch_id, kind, transaction_type, entry_date, entry_time,
	security_identifier, display_name, quantity, price, amount, commission, tax, exchange_rate, currency_code, notes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// InsertApproved writes the entry and its holding delta atomically. A second insert for the same
// source record is a no-op that returns the entry already stored.
func (r *PgxLedgerRepository) InsertApproved(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, bool, error) {
	var stored domain.LedgerEntry
	created := false

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		m := mapping.ToModelLedgerEntry(entry)
		rows, err := tx.Query(ctx, `
			INSERT INTO ledger_entries (`+ledgerColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
			ON CONFLICT (source_pending_id) DO NOTHING
			RETURNING `+ledgerColumns+`;`,
			m.EntryID, m.SourcePendingID, m.SourceBatchID, m.Kind, m.TransactionType, m.EntryDate, m.EntryTime,
			m.SecurityIdentifier, m.DisplayName, m.Quantity, m.Price, m.Amount, m.Commission, m.Tax,
			m.ExchangeRate, m.CurrencyCode, m.Notes,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ledger entry: %w", err)
		}
		inserted, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LedgerEntry])
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.findBySource(ctx, tx, entry.SourcePendingID)
			if err != nil {
				return err
			}
			stored = *existing
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to scan inserted ledger entry: %w", err)
		}

		stored = mapping.ToDomainLedgerEntry(inserted)
		created = true
		return r.applyHoldingDelta(ctx, tx, stored, false)
	})
	if err != nil {
		return nil, false, err
	}
	return &stored, created, nil
}

// RemoveBySource deletes the entry for a pending record and reverts its holding delta.
// Removing an entry that does not exist is not an error.
func (r *PgxLedgerRepository) RemoveBySource(ctx context.Context, sourcePendingID string) error {
	if !validID(sourcePendingID) {
		return nil
	}
	return r.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `DELETE FROM ledger_entries WHERE source_pending_id = $1 RETURNING `+ledgerColumns+`;`, sourcePendingID)
		if err != nil {
			return fmt.Errorf("failed to delete ledger entry for %s: %w", sourcePendingID, err)
		}
		removed, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LedgerEntry])
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to scan deleted ledger entry for %s: %w", sourcePendingID, err)
		}
		return r.applyHoldingDelta(ctx, tx, mapping.ToDomainLedgerEntry(removed), true)
	})
}

func (r *PgxLedgerRepository) applyHoldingDelta(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry, revert bool) error {
	qty, invested, ok := domain.HoldingDelta(entry)
	if !ok {
		return nil
	}
	if revert {
		qty, invested = qty.Neg(), invested.Neg()
	}
	displayName := ""
	if entry.DisplayName != nil {
		displayName = *entry.DisplayName
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO ledger_holdings (security_identifier, currency_code, display_name, quantity, net_invested, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (security_identifier, currency_code) DO UPDATE SET
			quantity = ledger_holdings.quantity + EXCLUDED.quantity,
			net_invested = ledger_holdings.net_invested + EXCLUDED.net_invested,
			display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE ledger_holdings.display_name END,
			last_updated_at = EXCLUDED.last_updated_at;`,
		*entry.SecurityIdentifier, entry.CurrencyCode, displayName, qty, invested, entry.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding %s/%s: %w", *entry.SecurityIdentifier, entry.CurrencyCode, err)
	}
	return nil
}

// FindEntryBySource returns the entry created from a pending record.
func (r *PgxLedgerRepository) FindEntryBySource(ctx context.Context, sourcePendingID string) (*domain.LedgerEntry, error) {
	if !validID(sourcePendingID) {
		return nil, apperrors.ErrNotFound
	}
	return r.findBySource(ctx, r.Pool, sourcePendingID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxLedgerRepository) findBySource(ctx context.Context, q querier, sourcePendingID string) (*domain.LedgerEntry, error) {
	rows, err := q.Query(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE source_pending_id = $1;`, sourcePendingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entry for %s: %w", sourcePendingID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ledger entry for %s: %w", sourcePendingID, err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// ListEntries pages through entries with keyset pagination on (created_at, entry_id).
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	var after *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, err
		}
		after = &c
	}

	args := []any{filter.BatchID, filter.Limit + 1}
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE ($1::text IS NULL OR source_batch_id = $1)`
	if after != nil {
		query += ` AND (created_at, entry_id) > ($3, $4::uuid)`
		args = append(args, after.CreatedAt, after.ID)
	}
	query += ` ORDER BY created_at ASC, entry_id ASC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan ledger entries: %w", err)
	}

	var next *string
	if len(ms) > filter.Limit {
		ms = ms[:filter.Limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.EntryID})
		next = &token
	}
	return mapping.ToDomainLedgerEntrySlice(ms), next, nil
}

// ListHoldings lists every non-empty position.
func (r *PgxLedgerRepository) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT security_identifier, currency_code, display_name, quantity, net_invested, last_updated_at
		FROM ledger_holdings
		WHERE quantity <> 0
		ORDER BY security_identifier, currency_code;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Holding])
	if err != nil {
		return nil, fmt.Errorf("failed to scan holdings: %w", err)
	}
	return mapping.ToDomainHoldingSlice(ms), nil
}
