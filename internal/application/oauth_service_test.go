package application

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
	repo "github.com/oksasatya/user-auth-service/internal/domain/repository"
	"github.com/oksasatya/user-auth-service/pkg/apperror"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
	"github.com/oksasatya/user-auth-service/pkg/metrics"
)

// fakeGoogle serves the token and userinfo endpoints.
type fakeGoogle struct {
	srv           *httptest.Server
	calls         atomic.Int32
	tokenBody     string
	tokenStatus   int
	userInfoBody  string
	userInfoCode  int
	lastTokenForm url.Values
	lastBearer    string
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{
		tokenBody:    `{"access_token":"ya29.token","token_type":"Bearer","expires_in":3599}`,
		tokenStatus:  http.StatusOK,
		userInfoBody: `{"sub":"1","email":"John@Example.com","email_verified":true,"name":"John Doe"}`,
		userInfoCode: http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		_ = r.ParseForm()
		f.lastTokenForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.tokenStatus)
		_, _ = w.Write([]byte(f.tokenBody))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.lastBearer = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.userInfoCode)
		_, _ = w.Write([]byte(f.userInfoBody))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func newTestOAuthService(t *testing.T, g *fakeGoogle) (*OAuthService, *MockUserRepository) {
	t.Helper()
	r := new(MockUserRepository)
	cfg := GoogleOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:4000/user/auth/google/callback",
		Timeout:      2 * time.Second,
	}
	if g != nil {
		cfg.Endpoint = oauth2.Endpoint{AuthURL: g.srv.URL + "/auth", TokenURL: g.srv.URL + "/token"}
		cfg.UserInfoURL = g.srv.URL + "/userinfo"
	}
	s := NewOAuthService(cfg, r, helpers.NewJWTManager("test-secret", time.Hour), nil, metrics.New())
	return s, r
}

func TestAuthCodeURL(t *testing.T) {
	s, _ := newTestOAuthService(t, nil)
	u, err := url.Parse(s.AuthCodeURL())
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:4000/user/auth/google/callback", q.Get("redirect_uri"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
}

func TestHandleCallbackSuccess(t *testing.T) {
	g := newFakeGoogle(t)
	s, r := newTestOAuthService(t, g)
	u := entity.NewBuyer("John", "Doe", "john@example.com", "$2a$10$hash")
	u.ID = testUserID
	r.On("FindActiveByEmail", mock.Anything, "john@example.com").Return(u, nil)

	res, err := s.HandleCallback(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, testUserID, res.User.ID)
	assert.Empty(t, res.User.Password)
	claims, err := s.JWT.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)

	assert.Equal(t, "auth-code", g.lastTokenForm.Get("code"))
	assert.Equal(t, "authorization_code", g.lastTokenForm.Get("grant_type"))
	assert.Equal(t, "client-id", g.lastTokenForm.Get("client_id"))
	assert.Equal(t, "client-secret", g.lastTokenForm.Get("client_secret"))
	assert.Equal(t, "http://localhost:4000/user/auth/google/callback", g.lastTokenForm.Get("redirect_uri"))
	assert.Equal(t, "Bearer ya29.token", g.lastBearer)
}

func TestHandleCallbackMissingCodeMakesNoCall(t *testing.T) {
	g := newFakeGoogle(t)
	s, _ := newTestOAuthService(t, g)

	_, err := s.HandleCallback(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	assert.Equal(t, "authorization code not found", apperror.PublicMessage(err))
	assert.Equal(t, int32(0), g.calls.Load())
}

func TestHandleCallbackFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(g *fakeGoogle, r *MockUserRepository)
		kind    apperror.Kind
		message string
	}{
		{
			name: "token endpoint rejects code",
			setup: func(g *fakeGoogle, _ *MockUserRepository) {
				g.tokenStatus = http.StatusBadRequest
				g.tokenBody = `{"error":"invalid_grant"}`
			},
			kind:    apperror.KindUpstream,
			message: "failed to obtain access token",
		},
		{
			name: "token response without access token",
			setup: func(g *fakeGoogle, _ *MockUserRepository) {
				g.tokenBody = `{"token_type":"Bearer"}`
			},
			kind:    apperror.KindUpstream,
			message: "failed to obtain access token",
		},
		{
			name: "userinfo error status",
			setup: func(g *fakeGoogle, _ *MockUserRepository) {
				g.userInfoCode = http.StatusUnauthorized
			},
			kind:    apperror.KindUpstream,
			message: "failed to obtain user info from google",
		},
		{
			name: "userinfo unparseable",
			setup: func(g *fakeGoogle, _ *MockUserRepository) {
				g.userInfoBody = `<html>`
			},
			kind:    apperror.KindUpstream,
			message: "failed to obtain user info from google",
		},
		{
			name: "userinfo without email",
			setup: func(g *fakeGoogle, _ *MockUserRepository) {
				g.userInfoBody = `{}`
			},
			kind:    apperror.KindUpstream,
			message: "failed to obtain user info from google",
		},
		{
			name: "email not verified by google",
			setup: func(g *fakeGoogle, _ *MockUserRepository) {
				g.userInfoBody = `{"sub":"1","email":"john@example.com","email_verified":false}`
			},
			kind:    apperror.KindAuth,
			message: "google email is not verified",
		},
		{
			name: "email_verified missing",
			setup: func(g *fakeGoogle, _ *MockUserRepository) {
				g.userInfoBody = `{"sub":"1","email":"john@example.com"}`
			},
			kind:    apperror.KindAuth,
			message: "google email is not verified",
		},
		{
			name: "email not registered",
			setup: func(_ *fakeGoogle, r *MockUserRepository) {
				r.On("FindActiveByEmail", mock.Anything, "john@example.com").Return(nil, repo.ErrNotFound)
			},
			kind:    apperror.KindNotFound,
			message: "email is not registered",
		},
		{
			name: "store failure",
			setup: func(_ *fakeGoogle, r *MockUserRepository) {
				r.On("FindActiveByEmail", mock.Anything, "john@example.com").Return(nil, errors.New("boom"))
			},
			kind:    apperror.KindInternal,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGoogle(t)
			s, r := newTestOAuthService(t, g)
			tt.setup(g, r)

			res, err := s.HandleCallback(context.Background(), "auth-code")
			require.Error(t, err)
			assert.Nil(t, res)
			if tt.kind == apperror.KindAuth {
				r.AssertNotCalled(t, "FindActiveByEmail", mock.Anything, mock.Anything)
			}
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			assert.Equal(t, tt.message, apperror.PublicMessage(err))
		})
	}
}

func TestHandleCallbackAuditsUnregistered(t *testing.T) {
	g := newFakeGoogle(t)
	s, r := newTestOAuthService(t, g)
	aud := new(MockAuditRecorder)
	s.Audit = aud
	r.On("FindActiveByEmail", mock.Anything, "john@example.com").Return(nil, repo.ErrNotFound)
	aud.On("Record", mock.Anything, mock.MatchedBy(func(ev entity.AuditEvent) bool {
		return ev.Action == entity.AuditGoogleDenied && ev.Email == "john@example.com"
	})).Return(nil)

	_, err := s.HandleCallback(context.Background(), "auth-code")
	require.Error(t, err)
	aud.AssertExpectations(t)
}
