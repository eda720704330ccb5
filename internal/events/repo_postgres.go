package events

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo persists events via database/sql with the pgx stdlib
// driver. Assumed table: events.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Insert(ctx context.Context, e Event) error {
	const q = `
INSERT INTO events (
  id, tenant_id, name, venue, starts_at, ends_at, capacity, status, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.TenantID,
		e.Name,
		e.Venue,
		e.StartsAt,
		e.EndsAt,
		e.Capacity,
		e.Status,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) FindByID(ctx context.Context, tenantID, id string) (Event, error) {
	const q = `
SELECT id, tenant_id, name, venue, starts_at, ends_at, capacity, status, created_at, updated_at
FROM events
WHERE tenant_id = $1 AND id = $2
`
	var e Event
	if err := r.db.QueryRowContext(ctx, q, tenantID, id).Scan(
		&e.ID,
		&e.TenantID,
		&e.Name,
		&e.Venue,
		&e.StartsAt,
		&e.EndsAt,
		&e.Capacity,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, ErrNotFound
		}
		return Event{}, err
	}
	return e, nil
}

func (r *PostgresRepo) ListByTenant(ctx context.Context, tenantID string) ([]Event, error) {
	const q = `
SELECT id, tenant_id, name, venue, starts_at, ends_at, capacity, status, created_at, updated_at
FROM events
WHERE tenant_id = $1
ORDER BY starts_at, id
`
	rows, err := r.db.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID,
			&e.TenantID,
			&e.Name,
			&e.Venue,
			&e.StartsAt,
			&e.EndsAt,
			&e.Capacity,
			&e.Status,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, e Event) error {
	const q = `
UPDATE events
SET name = $3, venue = $4, starts_at = $5, ends_at = $6, capacity = $7, status = $8, updated_at = $9
WHERE tenant_id = $1 AND id = $2
`
	res, err := r.db.ExecContext(ctx, q,
		e.TenantID,
		e.ID,
		e.Name,
		e.Venue,
		e.StartsAt,
		e.EndsAt,
		e.Capacity,
		e.Status,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
