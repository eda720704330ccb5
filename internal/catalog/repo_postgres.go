package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresRepo persists the catalog via database/sql with the pgx
// stdlib driver.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) InsertPackage(ctx context.Context, p Package) error {
	const q = `
INSERT INTO catalog_packages (
  id, tenant_id, event_id, name, description, price_minor, currency, status, created_at, updated_at
) VALUES (
  $1,$2,NULLIF($3,''),$4,NULLIF($5,''),$6,$7,$8,$9,$10
)
`
	_, err := r.db.ExecContext(ctx, q,
		p.ID,
		p.TenantID,
		p.EventID,
		p.Name,
		p.Description,
		p.PriceMinor,
		p.Currency,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) FindPackage(ctx context.Context, tenantID, id string) (Package, error) {
	const q = `
SELECT id, tenant_id, COALESCE(event_id, ''), name, COALESCE(description, ''),
       price_minor, currency, status, created_at, updated_at
FROM catalog_packages
WHERE tenant_id = $1 AND id = $2
`
	var p Package
	if err := r.db.QueryRowContext(ctx, q, tenantID, id).Scan(
		&p.ID,
		&p.TenantID,
		&p.EventID,
		&p.Name,
		&p.Description,
		&p.PriceMinor,
		&p.Currency,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Package{}, ErrNotFound
		}
		return Package{}, err
	}
	return p, nil
}

func (r *PostgresRepo) ListPackages(ctx context.Context, tenantID string) ([]Package, error) {
	const q = `
SELECT id, tenant_id, COALESCE(event_id, ''), name, COALESCE(description, ''),
       price_minor, currency, status, created_at, updated_at
FROM catalog_packages
WHERE tenant_id = $1
ORDER BY name, id
`
	rows, err := r.db.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Package
	for rows.Next() {
		var p Package
		if err := rows.Scan(
			&p.ID,
			&p.TenantID,
			&p.EventID,
			&p.Name,
			&p.Description,
			&p.PriceMinor,
			&p.Currency,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) UpdatePackage(ctx context.Context, p Package) error {
	const q = `
UPDATE catalog_packages
SET event_id = NULLIF($3,''), name = $4, description = NULLIF($5,''),
    price_minor = $6, currency = $7, status = $8, updated_at = $9
WHERE tenant_id = $1 AND id = $2
`
	res, err := r.db.ExecContext(ctx, q,
		p.TenantID,
		p.ID,
		p.EventID,
		p.Name,
		p.Description,
		p.PriceMinor,
		p.Currency,
		p.Status,
		p.UpdatedAt,
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

func (r *PostgresRepo) InsertOffer(ctx context.Context, o Offer) error {
	const q = `
INSERT INTO catalog_offers (
  id, tenant_id, package_id, name, percent_off, starts_at, ends_at, created_at
) VALUES (
  $1,$2,$3,NULLIF($4,''),$5,$6,$7,$8
)
`
	_, err := r.db.ExecContext(ctx, q,
		o.ID,
		o.TenantID,
		o.PackageID,
		o.Name,
		o.PercentOff,
		o.StartsAt,
		o.EndsAt,
		o.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) FindBestOffer(ctx context.Context, tenantID, packageID string, at time.Time) (Offer, bool, error) {
	const q = `
SELECT id, tenant_id, package_id, COALESCE(name, ''), percent_off, starts_at, ends_at, created_at
FROM catalog_offers
WHERE tenant_id = $1 AND package_id = $2
  AND starts_at <= $3 AND (ends_at IS NULL OR ends_at > $3)
ORDER BY percent_off DESC, starts_at DESC
LIMIT 1
`
	var (
		o    Offer
		ends sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, tenantID, packageID, at).Scan(
		&o.ID,
		&o.TenantID,
		&o.PackageID,
		&o.Name,
		&o.PercentOff,
		&o.StartsAt,
		&ends,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Offer{}, false, nil
		}
		return Offer{}, false, err
	}
	if ends.Valid {
		t := ends.Time
		o.EndsAt = &t
	}
	return o, true, nil
}
