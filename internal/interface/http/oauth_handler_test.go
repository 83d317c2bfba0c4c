package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-auth-service/internal/application"
	"github.com/oksasatya/user-auth-service/internal/domain/entity"
	"github.com/oksasatya/user-auth-service/pkg/apperror"
)

func init() { gin.SetMode(gin.TestMode) }

type MockGoogleAuth struct{ mock.Mock }

func (m *MockGoogleAuth) AuthCodeURL() string {
	return m.Called().String(0)
}
func (m *MockGoogleAuth) HandleCallback(ctx context.Context, code string) (*application.GoogleLoginResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.GoogleLoginResult), args.Error(1)
}

func newOAuthRouter(g GoogleAuth) *gin.Engine {
	h := NewOAuthHandler(g, nil)
	r := gin.New()
	r.GET("/user/auth/google", h.Redirect)
	r.GET("/user/auth/google/callback", h.Callback)
	return r
}

func do(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRedirect(t *testing.T) {
	g := new(MockGoogleAuth)
	g.On("AuthCodeURL").Return("https://accounts.google.com/o/oauth2/auth?client_id=x")

	rec := do(newOAuthRouter(g), "/user/auth/google")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://accounts.google.com/o/oauth2/auth?client_id=x", rec.Header().Get("Location"))
}

func TestCallbackSuccess(t *testing.T) {
	g := new(MockGoogleAuth)
	u := entity.NewBuyer("John", "Doe", "john@example.com", "")
	u.ID = "60d5ec4f9e7f9b3d84399a6b"
	g.On("HandleCallback", mock.Anything, "abc").Return(&application.GoogleLoginResult{
		User: u, Token: "signed.jwt", ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	rec := do(newOAuthRouter(g), "/user/auth/google/callback?code=abc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed.jwt", body.Token)
	assert.Equal(t, "60d5ec4f9e7f9b3d84399a6b", body.User["_id"])
	assert.Equal(t, "buyer", body.User["role"])
	_, hasPassword := body.User["password"]
	assert.False(t, hasPassword)
}

func TestCallbackFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"missing code", apperror.BadRequest("authorization code not found"), http.StatusNotFound, "authorization code not found"},
		{"token exchange", apperror.Upstream("failed to obtain access token", errors.New("invalid_grant")), http.StatusNotFound, "failed to obtain access token"},
		{"userinfo", apperror.Upstream("failed to obtain user info from google", errors.New("401")), http.StatusNotFound, "failed to obtain user info from google"},
		{"not registered", apperror.NotFound("email is not registered"), http.StatusNotFound, "email is not registered"},
		{"email not verified", apperror.Auth("google email is not verified"), http.StatusNotFound, "google email is not verified"},
		{"internal", apperror.Internal(errors.New("mongo down")), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := new(MockGoogleAuth)
			g.On("HandleCallback", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := do(newOAuthRouter(g), "/user/auth/google/callback?code=abc")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		})
	}
}

func TestCallbackPassesEmptyCode(t *testing.T) {
	g := new(MockGoogleAuth)
	g.On("HandleCallback", mock.Anything, "").Return(nil, apperror.BadRequest("authorization code not found"))

	rec := do(newOAuthRouter(g), "/user/auth/google/callback")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	g.AssertExpectations(t)
}

func TestHealth(t *testing.T) {
	ok := NewHealthHandler(map[string]Check{"mongo": func(context.Context) error { return nil }}, nil)
	down := NewHealthHandler(map[string]Check{"mongo": func(context.Context) error { return errors.New("timeout") }}, nil)

	r := gin.New()
	r.GET("/ok", ok.Health)
	r.GET("/down", down.Health)

	assert.Equal(t, http.StatusOK, do(r, "/ok").Code)
	rec := do(r, "/down")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mongo":"down"`)
}
