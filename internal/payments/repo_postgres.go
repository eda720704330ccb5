package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jonoyanguren/smartcashlesshub-sub000/pkg/utils"
)

// PostgresRepo persists payments via database/sql with the pgx stdlib
// driver.
//
// Assumed table: payments with UNIQUE (tenant_id, idempotency_key).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// InsertIdempotent runs find-then-insert inside one transaction so a
// replayed key returns the original record. The unique constraint backs
// this up against concurrent writers.
func (r *PostgresRepo) InsertIdempotent(ctx context.Context, p Payment) (Payment, error) {
	var out Payment

	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		existing, ok, err := findByIdempotencyKey(ctx, tx, p.TenantID, p.IdempotencyKey)
		if err != nil {
			return err
		}
		if ok {
			out = existing
			return nil
		}

		const q = `
INSERT INTO payments (
  id, tenant_id, event_id, payer_user_id, amount_minor, currency, method,
  external_ref, idempotency_key, metadata, created_at
) VALUES (
  $1,$2,NULLIF($3,''),NULLIF($4,''),$5,$6,$7,NULLIF($8,''),$9,NULLIF($10,''),$11
)
`
		if _, err := tx.ExecContext(ctx, q,
			p.ID,
			p.TenantID,
			p.EventID,
			p.PayerUserID,
			p.AmountMinor,
			p.Currency,
			p.Method,
			p.ExternalRef,
			p.IdempotencyKey,
			p.Metadata,
			p.CreatedAt,
		); err != nil {
			return err
		}
		out = p
		return nil
	})

	return out, err
}

func findByIdempotencyKey(ctx context.Context, tx *sql.Tx, tenantID, key string) (Payment, bool, error) {
	const q = `
SELECT id, tenant_id, COALESCE(event_id, ''), COALESCE(payer_user_id, ''), amount_minor, currency, method,
       COALESCE(external_ref, ''), idempotency_key, COALESCE(metadata, ''), created_at
FROM payments
WHERE tenant_id = $1 AND idempotency_key = $2
LIMIT 1
`
	var p Payment
	err := tx.QueryRowContext(ctx, q, tenantID, key).Scan(
		&p.ID,
		&p.TenantID,
		&p.EventID,
		&p.PayerUserID,
		&p.AmountMinor,
		&p.Currency,
		&p.Method,
		&p.ExternalRef,
		&p.IdempotencyKey,
		&p.Metadata,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Payment{}, false, nil
		}
		return Payment{}, false, err
	}
	return p, true, nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, tenantID, id string) (Payment, error) {
	const q = `
SELECT id, tenant_id, COALESCE(event_id, ''), COALESCE(payer_user_id, ''), amount_minor, currency, method,
       COALESCE(external_ref, ''), idempotency_key, COALESCE(metadata, ''), created_at
FROM payments
WHERE tenant_id = $1 AND id = $2
`
	var p Payment
	if err := r.db.QueryRowContext(ctx, q, tenantID, id).Scan(
		&p.ID,
		&p.TenantID,
		&p.EventID,
		&p.PayerUserID,
		&p.AmountMinor,
		&p.Currency,
		&p.Method,
		&p.ExternalRef,
		&p.IdempotencyKey,
		&p.Metadata,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	return p, nil
}

func (r *PostgresRepo) List(ctx context.Context, tenantID string, f ListFilter) ([]Payment, error) {
	var sb strings.Builder
	sb.WriteString(`
SELECT id, tenant_id, COALESCE(event_id, ''), COALESCE(payer_user_id, ''), amount_minor, currency, method,
       COALESCE(external_ref, ''), idempotency_key, COALESCE(metadata, ''), created_at
FROM payments
WHERE tenant_id = $1`)
	args := []any{tenantID}

	if f.EventID != "" {
		args = append(args, f.EventID)
		fmt.Fprintf(&sb, " AND event_id = $%d", len(args))
	}
	if f.Method != "" {
		args = append(args, f.Method)
		fmt.Fprintf(&sb, " AND method = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		fmt.Fprintf(&sb, " AND created_at < $%d", len(args))
	}
	sb.WriteString(" ORDER BY created_at, id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID,
			&p.TenantID,
			&p.EventID,
			&p.PayerUserID,
			&p.AmountMinor,
			&p.Currency,
			&p.Method,
			&p.ExternalRef,
			&p.IdempotencyKey,
			&p.Metadata,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
