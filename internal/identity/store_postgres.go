package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"siteflow/internal/platform/database"
	id "siteflow/pkg/domain"
	"siteflow/pkg/platform/sentinel"
)

// PostgresStore persists identities in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed identity store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// q joins the transaction in ctx when one is active.
func (s *PostgresStore) q(ctx context.Context) database.Querier {
	return database.QuerierFromContext(ctx, s.db)
}

// Create persists the identity. A unique index on lower(login) enforces
// case-insensitive login uniqueness.
func (s *PostgresStore) Create(ctx context.Context, ident *Identity) error {
	if ident == nil {
		return fmt.Errorf("identity is required")
	}
	query := `
		INSERT INTO identities (id, login, email, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(ident.ID),
		ident.Login,
		ident.Email,
		ident.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("login must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

// FindByID retrieves an identity by its UUID.
func (s *PostgresStore) FindByID(ctx context.Context, identityID id.IdentityID) (*Identity, error) {
	query := `
		SELECT id, login, email, created_at
		FROM identities
		WHERE id = $1
	`
	ident, err := scanIdentity(s.q(ctx).QueryRowContext(ctx, query, uuid.UUID(identityID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find identity by id: %w", err)
	}
	return ident, nil
}

// FindByLogin retrieves an identity by login (case-insensitive).
func (s *PostgresStore) FindByLogin(ctx context.Context, login string) (*Identity, error) {
	query := `
		SELECT id, login, email, created_at
		FROM identities
		WHERE lower(login) = lower($1)
	`
	ident, err := scanIdentity(s.q(ctx).QueryRowContext(ctx, query, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find identity by login: %w", err)
	}
	return ident, nil
}

// Exists reports whether the identity exists.
func (s *PostgresStore) Exists(ctx context.Context, identityID id.IdentityID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM identities WHERE id = $1)`
	if err := s.q(ctx).QueryRowContext(ctx, query, uuid.UUID(identityID)).Scan(&exists); err != nil {
		return false, fmt.Errorf("identity exists: %w", err)
	}
	return exists, nil
}

// Delete removes the identity.
func (s *PostgresStore) Delete(ctx context.Context, identityID id.IdentityID) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, uuid.UUID(identityID))
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete identity rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type identityRow interface {
	Scan(dest ...any) error
}

func scanIdentity(row identityRow) (*Identity, error) {
	var ident Identity
	var identityID uuid.UUID
	if err := row.Scan(&identityID, &ident.Login, &ident.Email, &ident.CreatedAt); err != nil {
		return nil, err
	}
	ident.ID = id.IdentityID(identityID)
	return &ident, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
