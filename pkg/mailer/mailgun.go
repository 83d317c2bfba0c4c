package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain  string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, Timeout: 10 * time.Second}
}

// Send sends an email via Mailgun. html is optional; if provided it will be used as HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return classifySendError(err)
}

// classifySendError marks 4xx API responses as permanent. Auth failures,
// timeouts and throttling are left retryable since they clear up without
// changing the message.
func classifySendError(err error) error {
	var ure *mg.UnexpectedResponseError
	if !errors.As(err, &ure) || ure.Actual < 400 || ure.Actual >= 500 {
		return err
	}
	switch ure.Actual {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusRequestTimeout, http.StatusTooManyRequests:
		return err
	}
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}
