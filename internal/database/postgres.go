package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the subset of pgxpool.Pool the provider uses; pgxmock
// satisfies it in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresProvider implements Provider backed by PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE submissions (
//	    id         UUID PRIMARY KEY,
//	    kind       TEXT NOT NULL,
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresProvider struct {
	pool PgxPool
}

// NewPostgresProvider connects a pgx pool to dsn and pings it to verify
// the connection before returning.
func NewPostgresProvider(ctx context.Context, dsn string) (*PostgresProvider, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresProvider{pool: pool}, nil
}

// NewPostgresProviderWithPool wraps an existing pool, mainly for tests.
func NewPostgresProviderWithPool(pool PgxPool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

const insertSubmission = `
	INSERT INTO submissions (id, kind, payload, created_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id
`

// SaveSubmission inserts one record and returns the stored ID.
func (p *PostgresProvider) SaveSubmission(ctx context.Context, sub Submission) (string, error) {
	payload, err := json.Marshal(sub.Payload)
	if err != nil {
		return "", fmt.Errorf("marshal submission payload: %w", err)
	}

	var id string
	err = p.pool.QueryRow(ctx, insertSubmission,
		sub.ID,
		string(sub.Kind),
		payload,
		sub.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert submission: %w", err)
	}
	return id, nil
}

// Close shuts down the connection pool.
func (p *PostgresProvider) Close() error {
	p.pool.Close()
	return nil
}
