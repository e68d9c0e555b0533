// Package memory contains an in-memory publisher for tests.
package memory

import (
	"context"
	"sync"
)

// Publisher records published submission IDs for inspection.
type Publisher struct {
	mu  sync.RWMutex
	ids []string
}

// New returns a memory Publisher.
func New() *Publisher {
	return &Publisher{}
}

// Publish records the submission ID.
func (p *Publisher) Publish(_ context.Context, submissionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, submissionID)
	return nil
}

// Close does nothing.
func (p *Publisher) Close() error { return nil }

// Published returns the recorded submission IDs.
func (p *Publisher) Published() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.ids))
	copy(out, p.ids)
	return out
}
