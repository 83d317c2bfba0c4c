package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-auth-service/internal/application"
	"github.com/oksasatya/user-auth-service/internal/domain/entity"
	"github.com/oksasatya/user-auth-service/pkg/apperror"
)

// GoogleAuth is the application side of the Google sign-in flow.
type GoogleAuth interface {
	AuthCodeURL() string
	HandleCallback(ctx context.Context, code string) (*application.GoogleLoginResult, error)
}

type OAuthHandler struct {
	OAuth  GoogleAuth
	Logger logrus.FieldLogger
}

func NewOAuthHandler(oauth GoogleAuth, logger logrus.FieldLogger) *OAuthHandler {
	return &OAuthHandler{OAuth: oauth, Logger: logger}
}

type userPayload struct {
	ID          string    `json:"_id"`
	Status      string    `json:"status"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Balance     int       `json:"balance"`
	Address     []string  `json:"address"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserPayload(u *entity.User) userPayload {
	address := u.Address
	if address == nil {
		address = []string{}
	}
	return userPayload{
		ID:          u.ID,
		Status:      string(u.Status),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        string(u.Role),
		Balance:     u.Balance,
		Address:     address,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Redirect sends the browser to Google's consent page.
func (h *OAuthHandler) Redirect(c *gin.Context) {
	c.Redirect(http.StatusFound, h.OAuth.AuthCodeURL())
}

// Callback completes the sign-in. Every flow failure answers 404 with a
// plain text message; unexpected failures answer 500.
func (h *OAuthHandler) Callback(c *gin.Context) {
	res, err := h.OAuth.HandleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			c.String(http.StatusInternalServerError, apperror.PublicMessage(err))
			return
		}
		c.String(http.StatusNotFound, apperror.PublicMessage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":       toUserPayload(res.User),
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
	})
}
