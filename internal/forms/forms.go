// Package forms defines the typed form-submission payloads accepted by the
// service and their positional spreadsheet row representations.
package forms

import "time"

// Kind identifies a form variant.
type Kind string

// Form variants accepted by the public API.
const (
	KindContact    Kind = "contact"
	KindJob        Kind = "job_application"
	KindGetStarted Kind = "get_started"
	KindResume     Kind = "resume_upload"
	KindNewsletter Kind = "newsletter"
)

// Row is an ordered sequence of string cells, positionally aligned to the
// destination sheet's column headers. Built fresh per submission and never
// mutated after construction.
type Row []string

// Contact is a message sent through the public contact form.
type Contact struct {
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Message   string    `json:"message"`
}

// JobApplication is an application for a posted position.
type JobApplication struct {
	CreatedAt   time.Time `json:"created_at"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Position    string    `json:"position"`
	Experience  string    `json:"experience,omitempty"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	ResumeURL   string    `json:"resume_url,omitempty"`
	Status      string    `json:"status,omitempty"`
}

// GetStartedRequest is a lead captured from the "get started" form.
type GetStartedRequest struct {
	CreatedAt time.Time `json:"created_at"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	JobTitle  string    `json:"job_title,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// ResumeUpload is a general resume submission, not tied to one position.
type ResumeUpload struct {
	CreatedAt          time.Time `json:"created_at"`
	FullName           string    `json:"full_name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	Location           string    `json:"location,omitempty"`
	PositionInterested string    `json:"position_interested,omitempty"`
	ExperienceLevel    string    `json:"experience_level,omitempty"`
	Skills             string    `json:"skills,omitempty"`
	CoverLetter        string    `json:"cover_letter,omitempty"`
	LinkedInURL        string    `json:"linkedin_url,omitempty"`
	PortfolioURL       string    `json:"portfolio_url,omitempty"`
	ResumeURL          string    `json:"resume_url,omitempty"`
}

// NewsletterSubscription is a newsletter signup.
type NewsletterSubscription struct {
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
}
