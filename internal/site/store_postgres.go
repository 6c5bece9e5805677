package site

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

// PostgresStore persists sites in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed site store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// q joins the transaction in ctx when one is active.
func (s *PostgresStore) q(ctx context.Context) database.Querier {
	return database.QuerierFromContext(ctx, s.db)
}

// CreateIfAddressAvailable persists the site. A unique index on
// (lower(domain), path) enforces address uniqueness.
func (s *PostgresStore) CreateIfAddressAvailable(ctx context.Context, site *Site) error {
	if site == nil {
		return fmt.Errorf("site is required")
	}
	query := `
		INSERT INTO sites (id, domain, path, title, owner_id, owner_role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(site.ID),
		site.Domain,
		site.Path,
		site.Title,
		uuid.UUID(site.OwnerID),
		site.OwnerRole,
		site.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("site address must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}

// FindByID retrieves a site by its UUID.
func (s *PostgresStore) FindByID(ctx context.Context, siteID id.SiteID) (*Site, error) {
	query := `
		SELECT id, domain, path, title, owner_id, owner_role, created_at
		FROM sites
		WHERE id = $1
	`
	site, err := scanSite(s.q(ctx).QueryRowContext(ctx, query, uuid.UUID(siteID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find site by id: %w", err)
	}
	return site, nil
}

// AddressExists reports whether (domain, path) is already provisioned.
func (s *PostgresStore) AddressExists(ctx context.Context, domain, path string) (bool, error) {
	if path == "" {
		path = "/"
	}
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM sites WHERE lower(domain) = lower($1) AND path = $2)`
	if err := s.q(ctx).QueryRowContext(ctx, query, domain, path).Scan(&exists); err != nil {
		return false, fmt.Errorf("site address exists: %w", err)
	}
	return exists, nil
}

// SetOwner reassigns ownership of the site.
func (s *PostgresStore) SetOwner(ctx context.Context, siteID id.SiteID, ownerID id.IdentityID, role string) error {
	query := `
		UPDATE sites
		SET owner_id = $2, owner_role = $3
		WHERE id = $1
	`
	res, err := s.q(ctx).ExecContext(ctx, query, uuid.UUID(siteID), uuid.UUID(ownerID), role)
	if err != nil {
		return fmt.Errorf("set site owner: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set site owner rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Count returns the total number of sites.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.q(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM sites`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sites: %w", err)
	}
	return count, nil
}

type siteRow interface {
	Scan(dest ...any) error
}

func scanSite(row siteRow) (*Site, error) {
	var site Site
	var siteID, ownerID uuid.UUID
	if err := row.Scan(&siteID, &site.Domain, &site.Path, &site.Title, &ownerID, &site.OwnerRole, &site.CreatedAt); err != nil {
		return nil, err
	}
	site.ID = id.SiteID(siteID)
	site.OwnerID = id.IdentityID(ownerID)
	return &site, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
