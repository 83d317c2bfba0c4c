package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user-related database operations.
// Every Find method only sees users whose status is active.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindActiveByID(ctx context.Context, id string) (*entity.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindActiveCredentials loads only the id and password hash.
	FindActiveCredentials(ctx context.Context, email string) (*entity.User, error)
}
