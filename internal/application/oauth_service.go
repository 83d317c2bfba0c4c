package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
	repo "github.com/oksasatya/user-auth-service/internal/domain/repository"
	"github.com/oksasatya/user-auth-service/pkg/apperror"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
	"github.com/oksasatya/user-auth-service/pkg/metrics"
)

const (
	GoogleUserInfoURL          = "https://www.googleapis.com/oauth2/v3/userinfo"
	DefaultOAuthRequestTimeout = 10 * time.Second

	msgAccessTokenFailed    = "failed to obtain access token"
	msgGoogleUserInfoFailed = "failed to obtain user info from google"
)

var (
	ErrAuthCodeMissing    = apperror.BadRequest("authorization code not found")
	ErrEmailNotRegistered = apperror.NotFound("email is not registered")
	ErrEmailNotVerified   = apperror.Auth("google email is not verified")
)

// GoogleOAuthConfig holds the client registration and the provider endpoints.
// Zero Endpoint and UserInfoURL mean Google's production endpoints.
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	UserInfoURL  string
	Timeout      time.Duration
}

// GoogleUserInfo is the subset of the OpenID userinfo response we read.
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleLoginResult is returned by a successful callback.
type GoogleLoginResult struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// OAuthService runs the Google authorization code flow against existing
// active users. It never creates accounts.
type OAuthService struct {
	conf        *oauth2.Config
	userInfoURL string
	timeout     time.Duration

	Repo    repo.UserRepository
	JWT     *helpers.JWTManager
	Logger  logrus.FieldLogger
	Metrics *metrics.Metrics
	Audit   AuditRecorder
}

func NewOAuthService(cfg GoogleOAuthConfig, repo repo.UserRepository, jwt *helpers.JWTManager, logger logrus.FieldLogger, m *metrics.Metrics) *OAuthService {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	// client id and secret go in the POST body
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = GoogleUserInfoURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultOAuthRequestTimeout
	}
	if logger == nil {
		logger = helpers.DiscardLogger()
	}

	return &OAuthService{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "profile", "email"},
		},
		userInfoURL: userInfoURL,
		timeout:     timeout,
		Repo:        repo,
		JWT:         jwt,
		Logger:      logger,
		Metrics:     m,
	}
}

// AuthCodeURL is the provider consent page the user is redirected to.
func (s *OAuthService) AuthCodeURL() string {
	return s.conf.AuthCodeURL("")
}

// HandleCallback exchanges the authorization code, reads the Google
// profile and signs in the matching active user.
func (s *OAuthService) HandleCallback(ctx context.Context, code string) (*GoogleLoginResult, error) {
	res, email, err := s.handleCallback(ctx, code)
	s.Metrics.Observe(OpGoogleLogin, err)

	fields := logrus.Fields{"operation": OpGoogleLogin, "email": email}
	if err != nil {
		entry := s.Logger.WithFields(fields).WithError(err)
		if apperror.KindOf(err) == apperror.KindInternal {
			entry.Error("google login failed")
		} else {
			entry.Warn("google login failed")
		}
		if errors.Is(err, ErrEmailNotRegistered) {
			s.audit(ctx, entity.AuditEvent{Email: email, Action: entity.AuditGoogleDenied})
		}
		return nil, err
	}
	s.audit(ctx, entity.AuditEvent{UserID: res.User.ID, Email: email, Action: entity.AuditGoogleLogin})
	return res, nil
}

func (s *OAuthService) handleCallback(ctx context.Context, code string) (*GoogleLoginResult, string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, "", ErrAuthCodeMissing
	}

	client := &http.Client{Timeout: s.timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)

	tok, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return nil, "", apperror.Upstream(msgAccessTokenFailed, err)
	}
	if tok.AccessToken == "" {
		return nil, "", apperror.New(apperror.KindUpstream, msgAccessTokenFailed)
	}

	info, err := s.fetchUserInfo(ctx, client, tok.AccessToken)
	if err != nil {
		return nil, "", apperror.Upstream(msgGoogleUserInfoFailed, err)
	}
	email := strings.ToLower(strings.TrimSpace(info.Email))
	// an unverified address must never match a local account
	if !info.EmailVerified {
		return nil, email, ErrEmailNotVerified
	}

	u, err := s.Repo.FindActiveByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, email, ErrEmailNotRegistered
	}
	if err != nil {
		return nil, email, apperror.Internal(err)
	}

	token, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return nil, email, err
	}
	return &GoogleLoginResult{User: u.Public(), Token: token, ExpiresAt: exp}, email, nil
}

func (s *OAuthService) fetchUserInfo(ctx context.Context, client *http.Client, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if strings.TrimSpace(info.Email) == "" {
		return nil, errors.New("userinfo has no email")
	}
	return &info, nil
}

func (s *OAuthService) audit(ctx context.Context, ev entity.AuditEvent) {
	if s.Audit == nil {
		return
	}
	ev.CreatedAt = time.Now().UTC()
	if err := s.Audit.Record(ctx, ev); err != nil {
		s.Logger.WithError(err).WithField("action", string(ev.Action)).Warn("audit record failed")
	}
}
