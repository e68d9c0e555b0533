// Package publisher defines the interface for announcing stored
// submissions to downstream consumers. The abstraction keeps the service
// independent of a specific broker.
package publisher

import "context"

// Provider announces accepted submissions. Publishing is best-effort: a
// failed publish is logged by the caller and never fails the submission.
type Provider interface {
	// Publish sends a notification for the stored submission ID.
	Publish(ctx context.Context, submissionID string) error

	// Close cleans up any client connections and resources.
	Close() error
}

// NoOpProvider is a publisher that does nothing.
type NoOpProvider struct{}

// Publish for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Publish(_ context.Context, _ string) error { return nil }

// Close for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Close() error { return nil }
