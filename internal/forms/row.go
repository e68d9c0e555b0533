package forms

import "time"

// timestampLayout is the canonical instant format used for the first cell
// of every row. Millisecond precision, always UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp normalizes t for the sheet. The zero time renders as an empty
// cell rather than the epoch.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// Row flattens the submission into the Contacts column order:
// timestamp, name, email, phone, company, message.
func (c Contact) Row() Row {
	return Row{
		Timestamp(c.CreatedAt),
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Message,
	}
}

// Row flattens the submission into the Job Applications column order:
// timestamp, full_name, email, phone, position, experience, cover_letter,
// resume_url, status.
func (a JobApplication) Row() Row {
	return Row{
		Timestamp(a.CreatedAt),
		a.FullName,
		a.Email,
		a.Phone,
		a.Position,
		a.Experience,
		a.CoverLetter,
		a.ResumeURL,
		a.Status,
	}
}

// Row flattens the submission into the Get Started Requests column order:
// timestamp, first_name, last_name, email, company, phone, job_title,
// message.
func (g GetStartedRequest) Row() Row {
	return Row{
		Timestamp(g.CreatedAt),
		g.FirstName,
		g.LastName,
		g.Email,
		g.Company,
		g.Phone,
		g.JobTitle,
		g.Message,
	}
}

// Row flattens the submission into the Resume Uploads column order:
// timestamp, full_name, email, phone, location, position_interested,
// experience_level, skills, cover_letter, linkedin_url, portfolio_url,
// resume_url.
func (r ResumeUpload) Row() Row {
	return Row{
		Timestamp(r.CreatedAt),
		r.FullName,
		r.Email,
		r.Phone,
		r.Location,
		r.PositionInterested,
		r.ExperienceLevel,
		r.Skills,
		r.CoverLetter,
		r.LinkedInURL,
		r.PortfolioURL,
		r.ResumeURL,
	}
}

// Row flattens the submission into the Newsletter Subscribers column
// order: timestamp, email.
func (n NewsletterSubscription) Row() Row {
	return Row{
		Timestamp(n.CreatedAt),
		n.Email,
	}
}
