package graphql

import (
	"context"
	"math"
	"time"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
	"github.com/oksasatya/user-auth-service/pkg/apperror"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
	"github.com/oksasatya/user-auth-service/pkg/validation"
)

// UserResolver exposes entity.User. There is intentionally no password field.
type UserResolver struct {
	u *entity.User
}

var errAuthRequired = apperror.Auth("authentication required")

func (r *UserResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.u.ID) }

func (r *UserResolver) FirstName() *string { return optional(r.u.FirstName) }

func (r *UserResolver) LastName() *string { return optional(r.u.LastName) }

func (r *UserResolver) Email() string { return r.u.Email }

func (r *UserResolver) Role() string { return string(r.u.Role) }

// Balance saturates at the GraphQL Int range.
func (r *UserResolver) Balance() int32 {
	switch {
	case r.u.Balance > math.MaxInt32:
		return math.MaxInt32
	case r.u.Balance < 0:
		return 0
	}
	return int32(r.u.Balance)
}

func (r *UserResolver) Address() *[]string {
	address := r.u.Address
	if address == nil {
		address = []string{}
	}
	return &address
}

func (r *UserResolver) PhoneNumber() *string { return &r.u.PhoneNumber }

func (r *UserResolver) CreatedAt() *string { return formatTime(r.u.CreatedAt) }

func (r *UserResolver) UpdatedAt() *string { return formatTime(r.u.UpdatedAt) }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func (r *Resolver) GetUserByID(ctx context.Context, args struct{ UserID graphqlgo.ID }) (*UserResolver, error) {
	u, err := r.Users.GetUserByID(ctx, string(args.UserID))
	if err != nil {
		return nil, toResolverError(err)
	}
	return &UserResolver{u: u}, nil
}

type searchUsersArgs struct {
	Query string
	Size  *int32
}

// SearchUsers lists user profiles, so it requires a signed-in caller.
func (r *Resolver) SearchUsers(ctx context.Context, args searchUsersArgs) ([]*UserResolver, error) {
	if _, ok := helpers.UserIDFromContext(ctx); !ok {
		return nil, toResolverError(errAuthRequired)
	}
	size := 0
	if args.Size != nil {
		size = int(*args.Size)
	}
	users, err := r.Users.SearchUsers(ctx, args.Query, size)
	if err != nil {
		return nil, toResolverError(err)
	}
	out := make([]*UserResolver, 0, len(users))
	for _, u := range users {
		out = append(out, &UserResolver{u: u})
	}
	return out, nil
}

type registerArgs struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

func (r *Resolver) Register(ctx context.Context, args registerArgs) (*UserResolver, error) {
	u, err := r.Users.Register(ctx, validation.RegisterInput{
		FirstName: deref(args.FirstName),
		LastName:  deref(args.LastName),
		Email:     deref(args.Email),
		Password:  deref(args.Password),
	})
	if err != nil {
		return nil, toResolverError(err)
	}
	return &UserResolver{u: u}, nil
}

type loginArgs struct {
	Email    *string
	Password *string
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (string, error) {
	token, err := r.Users.Login(ctx, validation.LoginInput{
		Email:    deref(args.Email),
		Password: deref(args.Password),
	})
	if err != nil {
		return "", toResolverError(err)
	}
	return token, nil
}
