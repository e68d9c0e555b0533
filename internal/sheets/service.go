package sheets

import (
	"context"

	"go.uber.org/zap"

	"github.com/talentgate/forms-service/internal/forms"
)

// Destination tab names. Column headers in each tab must match the field
// order the row mapper emits; nothing validates this against the live
// sheet, so a drifted tab silently mis-aligns.
const (
	SheetContacts   = "Contacts"
	SheetJobs       = "Job Applications"
	SheetGetStarted = "Get Started Requests"
	SheetResumes    = "Resume Uploads"
	SheetNewsletter = "Newsletter Subscribers"
)

// Service exposes one sync method per form variant. Each method is an
// independent pipeline: map to a row, append, return the boolean.
type Service struct {
	client Appender
	logger *zap.Logger
}

// NewService creates a Service over the given append strategy.
func NewService(client Appender, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// InitializeSheets checks configuration and logs readiness. It does not
// provision tabs or headers; that setup stays manual.
func (s *Service) InitializeSheets() {
	if !s.client.Configured() {
		s.logger.Warn("sheet mirror inactive: destination not configured, submissions will not be mirrored")
		return
	}
	s.logger.Info("sheet mirror ready",
		zap.Strings("sheets", []string{SheetContacts, SheetJobs, SheetGetStarted, SheetResumes, SheetNewsletter}))
}

// Configured reports whether the underlying client has a destination.
func (s *Service) Configured() bool {
	return s.client.Configured()
}

// SyncContact mirrors a contact message to the Contacts tab.
func (s *Service) SyncContact(ctx context.Context, c forms.Contact) bool {
	return s.client.AppendRow(ctx, AppendRequest{
		Sheet:    SheetContacts,
		Endpoint: "contact",
		Rows:     []forms.Row{c.Row()},
		Fields:   c,
	})
}

// SyncJobApplication mirrors a job application to the Job Applications tab.
func (s *Service) SyncJobApplication(ctx context.Context, a forms.JobApplication) bool {
	return s.client.AppendRow(ctx, AppendRequest{
		Sheet:    SheetJobs,
		Endpoint: "job-application",
		Rows:     []forms.Row{a.Row()},
		Fields:   a,
	})
}

// SyncGetStartedRequest mirrors a get-started lead to its tab.
func (s *Service) SyncGetStartedRequest(ctx context.Context, g forms.GetStartedRequest) bool {
	return s.client.AppendRow(ctx, AppendRequest{
		Sheet:    SheetGetStarted,
		Endpoint: "get-started",
		Rows:     []forms.Row{g.Row()},
		Fields:   g,
	})
}

// SyncResumeUpload mirrors a resume submission to the Resume Uploads tab.
func (s *Service) SyncResumeUpload(ctx context.Context, r forms.ResumeUpload) bool {
	return s.client.AppendRow(ctx, AppendRequest{
		Sheet:    SheetResumes,
		Endpoint: "resume",
		Rows:     []forms.Row{r.Row()},
		Fields:   r,
	})
}

// SyncNewsletterSubscription mirrors a signup to the Newsletter tab.
func (s *Service) SyncNewsletterSubscription(ctx context.Context, n forms.NewsletterSubscription) bool {
	return s.client.AppendRow(ctx, AppendRequest{
		Sheet:    SheetNewsletter,
		Endpoint: "newsletter",
		Rows:     []forms.Row{n.Row()},
		Fields:   n,
	})
}
