package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
)

// execer is satisfied by *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// AuditRepository appends auth events to auth_audit_logs.
type AuditRepository struct {
	db  execer
	now func() time.Time
}

func NewAuditRepository(db execer) *AuditRepository {
	return &AuditRepository{db: db, now: time.Now}
}

func (r *AuditRepository) Record(ctx context.Context, ev entity.AuditEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = r.now().UTC()
	}
	meta := ev.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	var userID *string
	if ev.UserID != "" {
		userID = &ev.UserID
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO auth_audit_logs (id, user_id, email, action, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ev.ID, userID, ev.Email, string(ev.Action), b, ev.CreatedAt)
	return err
}
