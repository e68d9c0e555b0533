package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talentgate/forms-service/internal/background"
	"github.com/talentgate/forms-service/internal/database"
	"github.com/talentgate/forms-service/internal/forms"
	"github.com/talentgate/forms-service/internal/metrics"
	"github.com/talentgate/forms-service/internal/sheets"
)

const storeTimeout = 5 * time.Second

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	var req forms.Contact
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := requireFields(map[string]string{
		"name":    req.Name,
		"email":   req.Email,
		"message": req.Message,
	}); err != nil {
		s.rejectSubmission(w, forms.KindContact, err)
		return
	}
	req.CreatedAt = s.clock.Now()
	s.acceptSubmission(w, r, forms.KindContact, &req, req.CreatedAt, func(ctx context.Context) bool {
		return s.sheets.SyncContact(ctx, req)
	})
}

func (s *Server) submitJobApplication(w http.ResponseWriter, r *http.Request) {
	var req forms.JobApplication
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := requireFields(map[string]string{
		"full_name": req.FullName,
		"email":     req.Email,
		"position":  req.Position,
	}); err != nil {
		s.rejectSubmission(w, forms.KindJob, err)
		return
	}
	if req.Status == "" {
		req.Status = "received"
	}
	req.CreatedAt = s.clock.Now()
	s.acceptSubmission(w, r, forms.KindJob, &req, req.CreatedAt, func(ctx context.Context) bool {
		return s.sheets.SyncJobApplication(ctx, req)
	})
}

func (s *Server) submitGetStarted(w http.ResponseWriter, r *http.Request) {
	var req forms.GetStartedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := requireFields(map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"email":      req.Email,
	}); err != nil {
		s.rejectSubmission(w, forms.KindGetStarted, err)
		return
	}
	req.CreatedAt = s.clock.Now()
	s.acceptSubmission(w, r, forms.KindGetStarted, &req, req.CreatedAt, func(ctx context.Context) bool {
		return s.sheets.SyncGetStartedRequest(ctx, req)
	})
}

func (s *Server) submitResumeUpload(w http.ResponseWriter, r *http.Request) {
	var req forms.ResumeUpload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := requireFields(map[string]string{
		"full_name": req.FullName,
		"email":     req.Email,
	}); err != nil {
		s.rejectSubmission(w, forms.KindResume, err)
		return
	}
	req.CreatedAt = s.clock.Now()
	s.acceptSubmission(w, r, forms.KindResume, &req, req.CreatedAt, func(ctx context.Context) bool {
		return s.sheets.SyncResumeUpload(ctx, req)
	})
}

func (s *Server) submitNewsletter(w http.ResponseWriter, r *http.Request) {
	var req forms.NewsletterSubscription
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := requireFields(map[string]string{"email": req.Email}); err != nil {
		s.rejectSubmission(w, forms.KindNewsletter, err)
		return
	}
	req.CreatedAt = s.clock.Now()
	s.acceptSubmission(w, r, forms.KindNewsletter, &req, req.CreatedAt, func(ctx context.Context) bool {
		return s.sheets.SyncNewsletterSubscription(ctx, req)
	})
}

// acceptSubmission stores the submission as the primary operation, then
// detaches the spreadsheet sync and event publish. The response reflects
// only the store outcome; the sync result is logged, never surfaced.
func (s *Server) acceptSubmission(
	w http.ResponseWriter,
	r *http.Request,
	kind forms.Kind,
	payload any,
	createdAt time.Time,
	sync func(ctx context.Context) bool,
) {
	id, err := s.idGen.NewID()
	if err != nil {
		s.logger.Error("generate submission id failed", zap.Error(err))
		metrics.ObserveSubmission(string(kind), "error")
		writeError(w, http.StatusInternalServerError, "failed to store submission")
		return
	}
	sub := database.Submission{
		ID:        id,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: createdAt,
	}

	sheet := sheetForKind(kind)
	storedID, err := background.RunWithSync(s.dispatcher, "sheet_sync_"+string(kind),
		func() (string, error) {
			ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
			defer cancel()
			saved, saveErr := s.store.SaveSubmission(ctx, sub)
			if saveErr != nil {
				return "", fmt.Errorf("save %s submission: %w", kind, saveErr)
			}
			return saved, nil
		},
		func(ctx context.Context) {
			synced := sync(ctx)
			metrics.ObserveSheetSync(sheet, synced)
			if pubErr := s.events.Publish(ctx, id); pubErr != nil {
				s.logger.Warn("submission event publish failed",
					zap.String("submission_id", id),
					zap.Error(pubErr))
			}
		})
	if err != nil {
		s.logger.Error("store submission failed",
			zap.String("kind", string(kind)),
			zap.Error(err))
		metrics.ObserveSubmission(string(kind), "error")
		writeError(w, http.StatusInternalServerError, "failed to store submission")
		return
	}

	metrics.ObserveSubmission(string(kind), "accepted")
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    map[string]string{"id": storedID},
	})
}

func (s *Server) rejectSubmission(w http.ResponseWriter, kind forms.Kind, err error) {
	metrics.ObserveSubmission(string(kind), "rejected")
	writeError(w, http.StatusBadRequest, err.Error())
}

// requireFields reports the missing required fields by their JSON names.
func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
}

func sheetForKind(kind forms.Kind) string {
	switch kind {
	case forms.KindContact:
		return sheets.SheetContacts
	case forms.KindJob:
		return sheets.SheetJobs
	case forms.KindGetStarted:
		return sheets.SheetGetStarted
	case forms.KindResume:
		return sheets.SheetResumes
	case forms.KindNewsletter:
		return sheets.SheetNewsletter
	default:
		return string(kind)
	}
}
