package entity

import "time"

// AuditAction names an authentication event worth keeping.
type AuditAction string

const (
	AuditRegister     AuditAction = "register"
	AuditLoginSuccess AuditAction = "login_success"
	AuditLoginFailure AuditAction = "login_failure"
	AuditGoogleLogin  AuditAction = "google_login"
	AuditGoogleDenied AuditAction = "google_login_unregistered"
)

type AuditEvent struct {
	ID        string
	UserID    string
	Email     string
	Action    AuditAction
	Metadata  map[string]any
	CreatedAt time.Time
}
