// Package database defines the interface for persisting form submissions.
// The Provider interface decouples the service from a specific database,
// so tests and local development can run without Postgres.
package database

import (
	"context"
	"time"

	"github.com/talentgate/forms-service/internal/forms"
)

// Submission is the stored record of one form submission. The typed
// payload is kept whole (jsonb in Postgres) rather than exploded into
// per-variant tables.
type Submission struct {
	ID        string     `db:"id"`
	Kind      forms.Kind `db:"kind"`
	Payload   any        `db:"payload"`
	CreatedAt time.Time  `db:"created_at"`
}

// Provider is the submission store. This is the primary write path: it is
// the only part of a submission request that is allowed to fail it.
type Provider interface {
	// SaveSubmission persists the submission and returns its ID.
	SaveSubmission(ctx context.Context, sub Submission) (string, error)

	// Close terminates the database connection and releases any resources.
	Close() error
}

// NoOpProvider is a store that discards everything. Useful for tests and
// for running the service without a database.
type NoOpProvider struct{}

// SaveSubmission echoes the submission's ID without persisting anything.
func (n *NoOpProvider) SaveSubmission(_ context.Context, sub Submission) (string, error) {
	if sub.ID != "" {
		return sub.ID, nil
	}
	return "noop-submission-id", nil
}

// Close does nothing.
func (n *NoOpProvider) Close() error { return nil }
