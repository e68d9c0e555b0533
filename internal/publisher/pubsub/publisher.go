// Package pubsub implements a Google Cloud Pub/Sub submission publisher.
package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// Publisher sends submission-accepted notifications to a Pub/Sub topic.
type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// New creates a Pub/Sub client and verifies the topic exists, failing
// fast on startup misconfiguration. Authentication uses Application
// Default Credentials.
func New(ctx context.Context, projectID, topicID string) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		if closeErr := client.Close(); closeErr != nil {
			return nil, fmt.Errorf("check topic existence: %w (close client: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("check topic existence: %w", err)
	}
	if !exists {
		if closeErr := client.Close(); closeErr != nil {
			return nil, fmt.Errorf("pubsub topic %q does not exist in project %q (close client: %v)", topicID, projectID, closeErr)
		}
		return nil, fmt.Errorf("pubsub topic %q does not exist in project %q", topicID, projectID)
	}

	return &Publisher{client: client, topic: topic}, nil
}

// Publish sends the submission ID to the topic. The client batches and
// retries in the background; the returned result is deliberately not
// awaited, keeping this fire-and-forget.
func (p *Publisher) Publish(ctx context.Context, submissionID string) error {
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: []byte(submissionID),
	})
	_ = result
	return nil
}

// Close stops the topic's publish goroutines and closes the client.
func (p *Publisher) Close() error {
	p.topic.Stop()
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
