package identity

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStore reads users, tenants and memberships via database/sql
// with the pgx stdlib driver.
//
// Assumed tables: users, tenants, memberships with a UNIQUE constraint
// on users.email and on memberships (user_id, tenant_id).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (User, error) {
	const q = `
SELECT id, email, password_hash, global_role, is_active, created_at
FROM users
WHERE email = $1
`
	var u User
	if err := s.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.GlobalRole,
		&u.IsActive,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) FindUserByID(ctx context.Context, id string) (User, error) {
	const q = `
SELECT id, email, password_hash, global_role, is_active, created_at
FROM users
WHERE id = $1
`
	var u User
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.GlobalRole,
		&u.IsActive,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) FindMembershipsForUser(ctx context.Context, userID string) ([]Membership, error) {
	const q = `
SELECT id, user_id, tenant_id, tenant_role, created_at
FROM memberships
WHERE user_id = $1
ORDER BY created_at, id
`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.TenantID, &m.TenantRole, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindTenantByID(ctx context.Context, id string) (Tenant, error) {
	const q = `
SELECT id, slug, name, is_active, created_at
FROM tenants
WHERE id = $1
`
	var t Tenant
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID,
		&t.Slug,
		&t.Name,
		&t.IsActive,
		&t.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tenant{}, ErrTenantNotFound
		}
		return Tenant{}, err
	}
	return t, nil
}
