package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"siteflow/internal/platform/database"
	"siteflow/internal/request/models"
	id "siteflow/pkg/domain"
	"siteflow/pkg/platform/sentinel"
)

// PostgresStore persists site requests in PostgreSQL. Partial unique indexes
// on (requested_name) WHERE pending and (requester_id) WHERE pending enforce
// the one-active-request invariants; the conditional UPDATE provides the
// atomic compare-and-swap for transitions.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed site request store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// q joins the transaction in ctx when one is active.
func (s *PostgresStore) q(ctx context.Context) database.Querier {
	return database.QuerierFromContext(ctx, s.db)
}

// Create persists a pending request.
func (s *PostgresStore) Create(ctx context.Context, r *models.SiteRequest) error {
	if r == nil {
		return fmt.Errorf("site request is required")
	}
	query := `
		INSERT INTO site_requests (id, requester_id, requested_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(r.ID),
		uuid.UUID(r.RequesterID),
		r.RequestedName,
		string(r.Status),
		r.CreatedAt,
		r.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("pending request already exists: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create site request: %w", err)
	}
	return nil
}

// FindByID retrieves a request by its UUID.
func (s *PostgresStore) FindByID(ctx context.Context, requestID id.RequestID) (*models.SiteRequest, error) {
	query := selectColumns + ` WHERE id = $1`
	r, err := scanRequest(s.q(ctx).QueryRowContext(ctx, query, uuid.UUID(requestID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find site request by id: %w", err)
	}
	return r, nil
}

// UpdateStatusIf applies the transition in a single conditional UPDATE.
// Returns false when the row exists but the status no longer matches.
func (s *PostgresStore) UpdateStatusIf(ctx context.Context, requestID id.RequestID, expected, next models.Status, resolvedBy string, now time.Time) (bool, error) {
	query := `
		UPDATE site_requests
		SET status = $3, resolved_by = $4, resolved_at = $5, updated_at = $5
		WHERE id = $1 AND status = $2
	`
	res, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(requestID),
		string(expected),
		string(next),
		resolvedBy,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("update site request status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update site request rows: %w", err)
	}
	if rows == 1 {
		return true, nil
	}

	// Distinguish "already transitioned" from "no such request".
	var exists bool
	if err := s.q(ctx).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM site_requests WHERE id = $1)`, uuid.UUID(requestID)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check site request existence: %w", err)
	}
	if !exists {
		return false, sentinel.ErrNotFound
	}
	return false, nil
}

// ListByStatus returns requests with the given status ordered by creation time.
func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.SiteRequest, error) {
	query := selectColumns + ` WHERE status = $1 ORDER BY created_at, id`
	return s.queryRequests(ctx, query, string(status))
}

// List returns all requests ordered by creation time.
func (s *PostgresStore) List(ctx context.Context) ([]*models.SiteRequest, error) {
	query := selectColumns + ` ORDER BY created_at, id`
	return s.queryRequests(ctx, query)
}

// CountByStatus returns the number of requests with the given status.
func (s *PostgresStore) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM site_requests WHERE status = $1`
	if err := s.q(ctx).QueryRowContext(ctx, query, string(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count site requests: %w", err)
	}
	return count, nil
}

const selectColumns = `
	SELECT id, requester_id, requested_name, status, created_at, updated_at, resolved_at, resolved_by
	FROM site_requests`

func (s *PostgresStore) queryRequests(ctx context.Context, query string, args ...any) ([]*models.SiteRequest, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query site requests: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var out []*models.SiteRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate site requests: %w", err)
	}
	return out, nil
}

type requestRow interface {
	Scan(dest ...any) error
}

func scanRequest(row requestRow) (*models.SiteRequest, error) {
	var r models.SiteRequest
	var requestID, requesterID uuid.UUID
	var status string
	var resolvedAt sql.NullTime
	var resolvedBy sql.NullString
	if err := row.Scan(&requestID, &requesterID, &r.RequestedName, &status, &r.CreatedAt, &r.UpdatedAt, &resolvedAt, &resolvedBy); err != nil {
		return nil, err
	}
	r.ID = id.RequestID(requestID)
	r.RequesterID = id.IdentityID(requesterID)
	r.Status = models.Status(status)
	if resolvedAt.Valid {
		t := resolvedAt.Time
		r.ResolvedAt = &t
	}
	if resolvedBy.Valid {
		r.ResolvedBy = resolvedBy.String
	}
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
