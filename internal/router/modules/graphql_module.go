package modules

import (
	"github.com/gin-gonic/gin"

	gql "github.com/oksasatya/user-auth-service/internal/interface/graphql"
	"github.com/oksasatya/user-auth-service/internal/interface/middleware"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
)

// GraphQLModule serves POST /graphql.
type GraphQLModule struct {
	Handler *gql.Handler
	JWT     *helpers.JWTManager
}

func NewGraphQLModule(h *gql.Handler, jwt *helpers.JWTManager) *GraphQLModule {
	return &GraphQLModule{Handler: h, JWT: jwt}
}

func (m *GraphQLModule) Register(rg *gin.RouterGroup) {
	rg.POST("/graphql", middleware.OptionalBearer(m.JWT), m.Handler.Serve)
}
