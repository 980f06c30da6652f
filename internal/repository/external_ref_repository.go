package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ExternalRefRepository persists external-system ticket identifiers.
type ExternalRefRepository interface {
	// Upsert records the external id for a (ticket, system) pair.
	// Re-delivery after a partial failure updates the existing row, so
	// at-least-once processing never duplicates refs.
	Upsert(ctx context.Context, ref *domain.ExternalTicketRef) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ExternalTicketRef, error)
}

type externalRefRepository struct {
	pool *pgxpool.Pool
}

// NewExternalRefRepository instantiates the repository.
func NewExternalRefRepository(pool *pgxpool.Pool) ExternalRefRepository {
	return &externalRefRepository{pool: pool}
}

func (r *externalRefRepository) Upsert(ctx context.Context, ref *domain.ExternalTicketRef) error {
	const query = `
        INSERT INTO external_ticket_refs (ticket_id, system, external_id, last_sync_at)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (ticket_id, system)
        DO UPDATE SET external_id=EXCLUDED.external_id, last_sync_at=EXCLUDED.last_sync_at
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		ref.TicketID,
		ref.System,
		ref.ExternalID,
		ref.LastSyncAt,
	).Scan(&ref.ID)
}

func (r *externalRefRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ExternalTicketRef, error) {
	const query = `
        SELECT id, ticket_id, system, external_id, last_sync_at
        FROM external_ticket_refs WHERE ticket_id=$1 ORDER BY last_sync_at DESC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ExternalTicketRef
	for rows.Next() {
		var ref domain.ExternalTicketRef
		if err := rows.Scan(
			&ref.ID,
			&ref.TicketID,
			&ref.System,
			&ref.ExternalID,
			&ref.LastSyncAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	return result, rows.Err()
}
