package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-auth-service/pkg/helpers"
)

const CtxUserIDKey = "userID"

// OptionalBearer reads an Authorization bearer token and, when it verifies,
// puts the user id into both the gin context and the request context.
// It never rejects a request; resolvers decide what needs a caller.
func OptionalBearer(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && token != "" {
			if claims, err := jwt.ParseToken(strings.TrimSpace(token)); err == nil {
				c.Set(CtxUserIDKey, claims.UserID)
				c.Request = c.Request.WithContext(helpers.WithUserID(c.Request.Context(), claims.UserID))
			}
		}
		c.Next()
	}
}
