package mailer

import (
	"errors"
	"strings"

	"github.com/oksasatya/user-auth-service/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or a pre-rendered Subject/Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

var ErrNoRecipient = errors.New("email job has no recipient")

// NewWelcomeJob builds the job published after registration.
func NewWelcomeJob(d templates.EmailData) EmailJob {
	return EmailJob{To: d.Email, Template: templates.Welcome, Data: templates.ToMap(d)}
}

// Content resolves the subject and bodies of the job, rendering the
// template when one is named.
func (j EmailJob) Content() (subject, text, html string, err error) {
	if strings.TrimSpace(j.To) == "" {
		return "", "", "", ErrNoRecipient
	}
	if j.Template == "" {
		return j.Subject, j.Text, j.HTML, nil
	}
	return templates.Render(j.Template, j.Data)
}
