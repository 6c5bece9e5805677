package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"siteflow/internal/platform/database"
)

const defaultTxTimeout = 5 * time.Second

// StoreTx runs a unit of work that must be committed or discarded as a whole.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// inMemoryStoreTx serializes units of work when no database backs the stores.
// Mutations in memory apply immediately, so serializing is what keeps
// concurrent approvals from interleaving.
type inMemoryStoreTx struct {
	mu      chan struct{}
	timeout time.Duration
}

func newInMemoryStoreTx() *inMemoryStoreTx {
	return &inMemoryStoreTx{
		mu:      make(chan struct{}, 1),
		timeout: defaultTxTimeout,
	}
}

func (t *inMemoryStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	select {
	case t.mu <- struct{}{}:
		defer func() { <-t.mu }()
	case <-ctx.Done():
		return fmt.Errorf("acquire store lock: %w", ctx.Err())
	}
	return fn(ctx)
}

// sqlStoreTx wraps the unit of work in a database transaction that
// participating stores join through the context.
type sqlStoreTx struct {
	db *sql.DB
}

// NewSQLStoreTx returns a StoreTx backed by database transactions.
func NewSQLStoreTx(db *sql.DB) StoreTx {
	return &sqlStoreTx{db: db}
}

func (t *sqlStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.RunInTx(ctx, t.db, fn)
}
