package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
)

// A deactivated user stays readable from the cache for at most the TTL,
// so the TTL is kept short and capped.
const (
	DefaultUserTTL = 15 * time.Second
	MaxUserTTL     = time.Minute
)

func userKey(id string) string {
	return "user:active:" + id
}

// cachedUser is the Redis representation of an active user. The password
// hash is never written to the cache.
type cachedUser struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Role        entity.Role `json:"role"`
	Balance     int         `json:"balance"`
	Address     []string    `json:"address"`
	PhoneNumber string      `json:"phone_number"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// UserCache keeps recently read users in Redis for a short TTL. Cache
// failures are logged and treated as misses.
type UserCache struct {
	rdb    helpers.RedisKV
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewUserCache(rdb helpers.RedisKV, ttl time.Duration, logger logrus.FieldLogger) *UserCache {
	switch {
	case ttl <= 0:
		ttl = DefaultUserTTL
	case ttl > MaxUserTTL:
		ttl = MaxUserTTL
	}
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &UserCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *UserCache) Get(ctx context.Context, id string) (*entity.User, bool) {
	var cu cachedUser
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, userKey(id), &cu)
	if err != nil {
		c.logger.WithError(err).WithField("user_id", id).Warn("user cache read failed")
		return nil, false
	}
	if !ok || entity.Status(cu.Status) != entity.StatusActive {
		return nil, false
	}
	address := cu.Address
	if address == nil {
		address = []string{}
	}
	return &entity.User{
		ID:          cu.ID,
		Status:      entity.Status(cu.Status),
		FirstName:   cu.FirstName,
		LastName:    cu.LastName,
		Email:       cu.Email,
		Role:        cu.Role,
		Balance:     cu.Balance,
		Address:     address,
		PhoneNumber: cu.PhoneNumber,
		CreatedAt:   cu.CreatedAt,
		UpdatedAt:   cu.UpdatedAt,
	}, true
}

func (c *UserCache) Set(ctx context.Context, u *entity.User) {
	if u == nil || !u.IsActive() {
		return
	}
	cu := cachedUser{
		ID:          u.ID,
		Status:      string(u.Status),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        u.Role,
		Balance:     u.Balance,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if err := helpers.RedisSetJSON(ctx, c.rdb, userKey(u.ID), cu, c.ttl); err != nil {
		c.logger.WithError(err).WithField("user_id", u.ID).Warn("user cache write failed")
	}
}
