package application

import (
	"context"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
)

// UserCache is a best-effort read cache for active users.
type UserCache interface {
	Get(ctx context.Context, id string) (*entity.User, bool)
	Set(ctx context.Context, u *entity.User)
}

// UserIndexer keeps a searchable projection of users.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]*entity.User, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, ev entity.AuditEvent) error
}

// EmailPublisher queues email jobs for the worker.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
