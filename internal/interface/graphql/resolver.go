package graphql

import (
	"context"
	_ "embed"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
	"github.com/oksasatya/user-auth-service/pkg/apperror"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
	"github.com/oksasatya/user-auth-service/pkg/validation"
)

//go:embed schema.graphql
var schemaSDL string

// UserOperations is what the resolvers need from the application layer.
type UserOperations interface {
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	Register(ctx context.Context, in validation.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, in validation.LoginInput) (string, error)
	SearchUsers(ctx context.Context, q string, size int) ([]*entity.User, error)
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	Users  UserOperations
	Logger logrus.FieldLogger
}

func NewResolver(users UserOperations, logger logrus.FieldLogger) *Resolver {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &Resolver{Users: users, Logger: logger}
}

// NewSchema parses the embedded SDL against the resolver. It panics when a
// schema field has no matching resolver method.
func NewSchema(r *Resolver) *graphqlgo.Schema {
	return graphqlgo.MustParseSchema(schemaSDL, r, graphqlgo.MaxDepth(8))
}

// resolverError carries only the client-safe message plus the error kind
// as extensions.code.
type resolverError struct {
	kind    apperror.Kind
	message string
}

func (e *resolverError) Error() string { return e.message }

func (e *resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.kind.String()}
}

func toResolverError(err error) error {
	if err == nil {
		return nil
	}
	return &resolverError{kind: apperror.KindOf(err), message: apperror.PublicMessage(err)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
