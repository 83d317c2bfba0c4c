package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserRepository) FindActiveByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) FindActiveCredentials(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockUserCache struct{ mock.Mock }

func (m *MockUserCache) Get(ctx context.Context, id string) (*entity.User, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*entity.User), args.Bool(1)
}
func (m *MockUserCache) Set(ctx context.Context, u *entity.User) {
	m.Called(ctx, u)
}

type MockUserIndexer struct{ mock.Mock }

func (m *MockUserIndexer) Index(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserIndexer) Search(ctx context.Context, q string, size int) ([]*entity.User, error) {
	args := m.Called(ctx, q, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

type MockAuditRecorder struct{ mock.Mock }

func (m *MockAuditRecorder) Record(ctx context.Context, ev entity.AuditEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type MockEmailPublisher struct{ mock.Mock }

func (m *MockEmailPublisher) PublishJSON(ctx context.Context, body any) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}
