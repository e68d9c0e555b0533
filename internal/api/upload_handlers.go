package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"go.uber.org/zap"

	"github.com/talentgate/forms-service/internal/metrics"
	"github.com/talentgate/forms-service/internal/storage"
	"github.com/talentgate/forms-service/internal/uploads"
)

// multipartOverhead is headroom for multipart framing on top of the
// per-file byte cap the upload service enforces.
const multipartOverhead = 1 << 20

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, "image", s.uploads.SaveImage)
}

func (s *Server) uploadResume(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, "resume", s.uploads.SaveResume)
}

func (s *Server) handleUpload(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	save func(ctx context.Context, contentType string, data io.Reader) (uploads.Result, error),
) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Uploads.MaxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.Warn("close upload file failed", zap.Error(closeErr))
		}
	}()

	contentType := header.Header.Get("Content-Type")
	res, err := save(r.Context(), contentType, file)
	if err != nil {
		var rejection *uploads.RejectionError
		if errors.As(err, &rejection) {
			metrics.ObserveUpload(kind, "rejected", 0)
			writeError(w, http.StatusBadRequest, rejection.Reason)
			return
		}
		s.logger.Error("store upload failed", zap.String("kind", kind), zap.Error(err))
		metrics.ObserveUpload(kind, "error", 0)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	metrics.ObserveUpload(kind, "accepted", res.Size)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data": map[string]any{
			"url":          res.URL,
			"size":         res.Size,
			"content_type": res.ContentType,
		},
	})
}

type deleteUploadRequest struct {
	URL string `json:"url"`
}

func (s *Server) deleteUpload(w http.ResponseWriter, r *http.Request) {
	var req deleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "missing upload url")
		return
	}
	if err := s.uploads.Delete(r.Context(), req.URL); err != nil {
		var rejection *uploads.RejectionError
		if errors.As(err, &rejection) {
			writeError(w, http.StatusBadRequest, rejection.Reason)
			return
		}
		s.logger.Error("delete upload failed", zap.String("url", req.URL), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete upload")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// serveUpload streams a previously accepted file back by its stable URL.
func (s *Server) serveUpload(w http.ResponseWriter, r *http.Request) {
	rc, err := s.uploads.Open(r.Context(), r.URL.Path)
	if err != nil {
		var rejection *uploads.RejectionError
		switch {
		case errors.As(err, &rejection):
			writeError(w, http.StatusBadRequest, rejection.Reason)
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "file not found")
		default:
			s.logger.Error("open upload failed", zap.String("url", r.URL.Path), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read upload")
		}
		return
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			s.logger.Warn("close upload reader failed", zap.Error(closeErr))
		}
	}()

	if ct := mime.TypeByExtension(path.Ext(r.URL.Path)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("stream upload failed", zap.String("url", r.URL.Path), zap.Error(err))
	}
}
