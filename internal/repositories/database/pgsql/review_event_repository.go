package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
	"github.com/SscSPs/statement_review_app/internal/models"
	"github.com/SscSPs/statement_review_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReviewEventRepository struct {
	BaseRepository
}

func newPgxReviewEventRepository(pool *pgxpool.Pool) *PgxReviewEventRepository {
	return &PgxReviewEventRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReviewEventRepositoryFacade = (*PgxReviewEventRepository)(nil)

func (r *PgxReviewEventRepository) AppendEvent(ctx context.Context, event domain.ReviewEvent) error {
	m := mapping.ToModelReviewEvent(event)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO review_events (event_id, pending_id, batch_id, action, actor_id, note, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		m.EventID, m.PendingID, m.BatchID, m.Action, m.ActorID, m.Note, m.At,
	)
	if err != nil {
		return fmt.Errorf("failed to append review event for %s: %w", event.PendingID, err)
	}
	return nil
}

func (r *PgxReviewEventRepository) ListEventsByPending(ctx context.Context, pendingID string) ([]domain.ReviewEvent, error) {
	if !validID(pendingID) {
		return []domain.ReviewEvent{}, nil
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT event_id, pending_id, batch_id, action, actor_id, note, at
		FROM review_events
		WHERE pending_id = $1
		ORDER BY at ASC, event_id ASC;`, pendingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query review events for %s: %w", pendingID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ReviewEvent])
	if err != nil {
		return nil, fmt.Errorf("failed to scan review events for %s: %w", pendingID, err)
	}
	return mapping.ToDomainReviewEventSlice(ms), nil
}
