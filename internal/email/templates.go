package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title    string
	Heading  string
	CTALabel string
	CTAURL   string
}

// ApplicationReceivedData fills the employer notification.
type ApplicationReceivedData struct {
	baseEmailData
	JobTitle       string
	ApplicantName  string
	ApplicantEmail string
	ApplicantPhone string
	Message        string
}

// NewApplicationReceivedData builds the template payload for an application
// notification, including the job management CTA.
func NewApplicationReceivedData(jobTitle, applicantName, applicantEmail, applicantPhone, message, jobURL string) ApplicationReceivedData {
	return ApplicationReceivedData{
		baseEmailData: baseEmailData{
			Title:    "New application",
			Heading:  "You received a new application",
			CTALabel: "View posting",
			CTAURL:   jobURL,
		},
		JobTitle:       jobTitle,
		ApplicantName:  applicantName,
		ApplicantEmail: applicantEmail,
		ApplicantPhone: applicantPhone,
		Message:        message,
	}
}

// JobPostedData fills the employer posting confirmation.
type JobPostedData struct {
	baseEmailData
	JobTitle string
}

func NewJobPostedData(jobTitle, jobURL string) JobPostedData {
	return JobPostedData{
		baseEmailData: baseEmailData{
			Title:    "Posting live",
			Heading:  "Your job posting is live",
			CTALabel: "View posting",
			CTAURL:   jobURL,
		},
		JobTitle: jobTitle,
	}
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
