// Package storage abstracts blob persistence for uploaded files, so the
// upload service can run against local disk, GCS, or an in-memory double.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by GetObject when no blob exists at the path.
var ErrNotFound = errors.New("object not found")

// BlobStore reads and writes uploaded files by relative path.
type BlobStore interface {
	// PutObject writes data at path and returns a provider URI for logs.
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)

	// GetObject opens the blob at path. The caller closes the reader.
	GetObject(ctx context.Context, path string) (io.ReadCloser, error)

	// DeleteObject removes the blob at path. Deleting a missing blob is
	// not an error; deletion is idempotent.
	DeleteObject(ctx context.Context, path string) error
}
