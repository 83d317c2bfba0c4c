package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-auth-service/internal/interface/http"
)

// OAuthModule wires the Google sign-in routes:
// GET /user/auth/google and GET /user/auth/google/callback
type OAuthModule struct {
	Handler *handlers.OAuthHandler
}

func NewOAuthModule(h *handlers.OAuthHandler) *OAuthModule {
	return &OAuthModule{Handler: h}
}

func (m *OAuthModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	user.GET("/auth/google", m.Handler.Redirect)
	user.GET("/auth/google/callback", m.Handler.Callback)
}
