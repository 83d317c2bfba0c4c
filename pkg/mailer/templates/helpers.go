package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithAppName(name string) Option  { return func(d *EmailData) { d.AppName = name } }
func WithSupportURL(url string) Option { return func(d *EmailData) { d.SupportURL = url } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewWelcomeData builds the data for the welcome template. Name falls back
// to the local part of the email.
func NewWelcomeData(name, email string, opts ...Option) EmailData {
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	d := EmailData{Name: name, Email: email}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
