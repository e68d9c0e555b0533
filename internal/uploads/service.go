// Package uploads receives, serves, and deletes user-submitted files
// (form images and resumes) on top of a blob store.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/talentgate/forms-service/internal/storage"
)

// URLPrefix is where accepted files are served from.
const URLPrefix = "/uploads/"

// Storage prefixes per upload kind.
const (
	imagePrefix  = "images"
	resumePrefix = "resumes"
)

// supportedImageTypes is the image content-type whitelist.
var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// supportedResumeTypes accepts PDF and Word documents.
var supportedResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// extensionByType maps accepted content types to stored file extensions.
var extensionByType = map[string]string{
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"image/gif":          ".gif",
	"image/webp":         ".webp",
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// RejectionError is a structured client error: wrong type or oversized
// payload. Handlers map it to a 4xx, never a fault.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string { return e.Reason }

// IDGenerator names stored files.
type IDGenerator interface {
	NewID() (string, error)
}

// Result describes an accepted upload.
type Result struct {
	// URL is the stable relative access URL, e.g. /uploads/images/<id>.png.
	URL string
	// Path is the blob-store path, e.g. images/<id>.png.
	Path string
	// Size is the number of bytes persisted.
	Size int64
	// ContentType is the declared content type.
	ContentType string
}

// Service enforces the upload policy and delegates persistence.
type Service struct {
	store    storage.BlobStore
	maxBytes int64
	idGen    IDGenerator
	logger   *zap.Logger
}

// NewService creates a Service with the given size cap.
func NewService(store storage.BlobStore, maxBytes int64, idGen IDGenerator, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		maxBytes: maxBytes,
		idGen:    idGen,
		logger:   logger,
	}
}

// SaveImage accepts a single image upload.
func (s *Service) SaveImage(ctx context.Context, contentType string, data io.Reader) (Result, error) {
	return s.save(ctx, imagePrefix, supportedImageTypes, contentType, data)
}

// SaveResume accepts a single resume document upload.
func (s *Service) SaveResume(ctx context.Context, contentType string, data io.Reader) (Result, error) {
	return s.save(ctx, resumePrefix, supportedResumeTypes, contentType, data)
}

func (s *Service) save(ctx context.Context, prefix string, allowed map[string]bool, contentType string, data io.Reader) (Result, error) {
	mediaType := normalizeContentType(contentType)
	if !allowed[mediaType] {
		return Result{}, &RejectionError{Reason: fmt.Sprintf("unsupported content type %q", contentType)}
	}

	// Read one byte past the cap so oversized bodies are detected without
	// buffering more than the limit.
	body, err := io.ReadAll(io.LimitReader(data, s.maxBytes+1))
	if err != nil {
		return Result{}, fmt.Errorf("read upload body: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return Result{}, &RejectionError{Reason: fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes)}
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return Result{}, fmt.Errorf("generate upload id: %w", err)
	}
	blobPath := fmt.Sprintf("%s/%s%s", prefix, id, extensionByType[mediaType])

	uri, err := s.store.PutObject(ctx, blobPath, mediaType, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info("upload accepted",
		zap.String("path", blobPath),
		zap.String("content_type", mediaType),
		zap.Int("bytes", len(body)),
		zap.String("uri", uri))

	return Result{
		URL:         URLPrefix + blobPath,
		Path:        blobPath,
		Size:        int64(len(body)),
		ContentType: mediaType,
	}, nil
}

// Open returns a reader over a previously accepted file, addressed by its
// relative URL.
func (s *Service) Open(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	blobPath, err := resolve(fileURL)
	if err != nil {
		return nil, err
	}
	return s.store.GetObject(ctx, blobPath)
}

// Delete removes a previously accepted file, addressed by its relative
// URL. Deleting a missing or already-deleted file is still a success.
func (s *Service) Delete(ctx context.Context, fileURL string) error {
	blobPath, err := resolve(fileURL)
	if err != nil {
		return err
	}
	if err := s.store.DeleteObject(ctx, blobPath); err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	s.logger.Info("upload deleted", zap.String("path", blobPath))
	return nil
}

// resolve maps a relative access URL back to a blob path, strictly inside
// the managed prefixes.
func resolve(fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, URLPrefix) {
		return "", &RejectionError{Reason: "url is not a managed upload"}
	}
	blobPath := path.Clean(strings.TrimPrefix(fileURL, URLPrefix))
	if !strings.HasPrefix(blobPath, imagePrefix+"/") && !strings.HasPrefix(blobPath, resumePrefix+"/") {
		return "", &RejectionError{Reason: "url is outside the managed upload directories"}
	}
	return blobPath, nil
}

func normalizeContentType(contentType string) string {
	mediaType := strings.TrimSpace(strings.ToLower(contentType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return mediaType
}
