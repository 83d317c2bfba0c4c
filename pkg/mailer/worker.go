package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrPermanent wraps send errors that a retry cannot fix, such as a
// rejected recipient.
var ErrPermanent = errors.New("permanent send failure")

// Sender delivers one rendered email. *Mailgun implements it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Outcome tells the consumer what to do with the delivery.
type Outcome int

const (
	// Ack removes the message from the queue.
	Ack Outcome = iota
	// Reject drops a message that can never succeed.
	Reject
	// Requeue puts the message back for another attempt.
	Requeue
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Reject:
		return "reject"
	default:
		return "requeue"
	}
}

// Process decodes, renders and sends one queued job. Bad payloads, render
// failures and permanent send errors are rejected; other send failures are
// requeued.
func Process(ctx context.Context, s Sender, body []byte, sendTimeout time.Duration) (Outcome, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Reject, fmt.Errorf("decode job: %w", err)
	}
	subject, text, html, err := job.Content()
	if err != nil {
		return Reject, fmt.Errorf("render %q: %w", job.Template, err)
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := s.Send(c, job.To, subject, text, html); err != nil {
		if errors.Is(err, ErrPermanent) {
			return Reject, fmt.Errorf("send to %s: %w", job.To, err)
		}
		return Requeue, fmt.Errorf("send to %s: %w", job.To, err)
	}
	return Ack, nil
}
