package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// AuditLogRepository appends to and reads the immutable audit trail.
// There is deliberately no update or delete.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *domain.AuditLogEntry) error
	List(ctx context.Context, limit, offset int) ([]domain.AuditLogEntry, error)
	ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]domain.AuditLogEntry, error)
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository instantiates the repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	const query = `
        INSERT INTO audit_log (actor_id, action, entity, entity_id, meta)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ActorID,
		entry.Action,
		entry.Entity,
		entry.EntityID,
		entry.Meta,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditLogRepository) List(ctx context.Context, limit, offset int) ([]domain.AuditLogEntry, error) {
	const query = `
        SELECT id, actor_id, action, entity, entity_id, meta, created_at
        FROM audit_log ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.query(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]domain.AuditLogEntry, error) {
	const query = `
        SELECT id, actor_id, action, entity, entity_id, meta, created_at
        FROM audit_log WHERE entity=$1 AND entity_id=$2
        ORDER BY created_at DESC LIMIT $3`
	return r.query(ctx, query, entity, entityID, normalizeLimit(limit))
}

func (r *auditLogRepository) query(ctx context.Context, query string, args ...any) ([]domain.AuditLogEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditLogEntry
	for rows.Next() {
		var entry domain.AuditLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.Entity,
			&entry.EntityID,
			&entry.Meta,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
