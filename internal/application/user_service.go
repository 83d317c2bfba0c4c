package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
	repo "github.com/oksasatya/user-auth-service/internal/domain/repository"
	"github.com/oksasatya/user-auth-service/pkg/apperror"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
	"github.com/oksasatya/user-auth-service/pkg/mailer"
	mailtpl "github.com/oksasatya/user-auth-service/pkg/mailer/templates"
	"github.com/oksasatya/user-auth-service/pkg/metrics"
	"github.com/oksasatya/user-auth-service/pkg/validation"
)

const (
	OpGetUserByID = "get_user_by_id"
	OpRegister    = "register"
	OpLogin       = "login"
	OpSearchUsers = "search_users"
	OpGoogleLogin = "google_login"

	sideEffectTimeout = 5 * time.Second
)

var (
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("email already used")
	ErrInvalidCredentials = apperror.Auth("invalid email or password")
)

// UserService implements the user lookup, registration and password login
// operations. Cache, Indexer, Audit and Emails are optional; a nil value
// disables that side effect.
type UserService struct {
	Repo    repo.UserRepository
	JWT     *helpers.JWTManager
	Logger  logrus.FieldLogger
	Metrics *metrics.Metrics

	Cache   UserCache
	Indexer UserIndexer
	Audit   AuditRecorder
	Emails  EmailPublisher

	// Used to fill the welcome email.
	AppName    string
	SupportURL string

	now func() time.Time
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, logger logrus.FieldLogger, m *metrics.Metrics) *UserService {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &UserService{Repo: repo, JWT: jwt, Logger: logger, Metrics: m, now: time.Now}
}

// GetUserByID returns the active user with the given id, without the
// password hash.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.getUserByID(ctx, id)
	s.Metrics.Observe(OpGetUserByID, err)
	if err != nil {
		s.logFailure(OpGetUserByID, err, logrus.Fields{"user_id": id})
		return nil, err
	}
	return u, nil
}

func (s *UserService) getUserByID(ctx context.Context, id string) (*entity.User, error) {
	if err := validation.ValidateUserID(id); err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if u, ok := s.Cache.Get(ctx, id); ok {
			return u.Public(), nil
		}
	}
	u, err := s.Repo.FindActiveByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, u)
	}
	return u.Public(), nil
}

// Register creates an active buyer account. Email uniqueness among active
// users is enforced by the store; the lookup here only gives a fast answer.
func (s *UserService) Register(ctx context.Context, in validation.RegisterInput) (*entity.User, error) {
	u, err := s.register(ctx, in)
	s.Metrics.Observe(OpRegister, err)
	if err != nil {
		s.logFailure(OpRegister, err, logrus.Fields{"email": in.Email})
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	s.afterRegister(ctx, u)
	return u.Public(), nil
}

func (s *UserService) register(ctx context.Context, in validation.RegisterInput) (*entity.User, error) {
	in, err := validation.ValidateRegisterInput(in)
	if err != nil {
		return nil, err
	}

	_, err = s.Repo.FindActiveByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrEmailAlreadyUsed
	case !errors.Is(err, repo.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := entity.NewBuyer(in.FirstName, in.LastName, in.Email, hash)
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, apperror.Internal(err)
	}
	return u, nil
}

// afterRegister runs the non-critical follow-ups. Their failures are
// logged and never fail the registration.
func (s *UserService) afterRegister(ctx context.Context, u *entity.User) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	log := s.Logger.WithField("user_id", u.ID)

	if s.Indexer != nil {
		if err := s.Indexer.Index(ctx, u.Public()); err != nil {
			log.WithError(err).Warn("index user failed")
		}
	}
	if s.Emails != nil {
		data := mailtpl.NewWelcomeData(u.FirstName, u.Email,
			mailtpl.WithAppName(s.AppName),
			mailtpl.WithSupportURL(s.SupportURL),
			mailtpl.WithTime(u.CreatedAt),
		)
		if err := s.Emails.PublishJSON(ctx, mailer.NewWelcomeJob(data)); err != nil {
			log.WithError(err).Warn("publish welcome email failed")
		}
	}
	s.audit(ctx, entity.AuditEvent{UserID: u.ID, Email: u.Email, Action: entity.AuditRegister})
}

// Login verifies the credentials of an active user and returns a signed
// token. Unknown email and wrong password fail the same way.
func (s *UserService) Login(ctx context.Context, in validation.LoginInput) (string, error) {
	token, userID, err := s.login(ctx, in)
	s.Metrics.Observe(OpLogin, err)

	ev := entity.AuditEvent{UserID: userID, Email: in.Email, Action: entity.AuditLoginSuccess}
	if err != nil {
		s.logFailure(OpLogin, err, logrus.Fields{"email": in.Email})
		if apperror.Is(err, apperror.KindAuth) {
			ev.Action = entity.AuditLoginFailure
			s.audit(ctx, ev)
		}
		return "", err
	}
	s.audit(ctx, ev)
	return token, nil
}

func (s *UserService) login(ctx context.Context, in validation.LoginInput) (string, string, error) {
	in, err := validation.ValidateLoginInput(in)
	if err != nil {
		return "", "", err
	}

	u, err := s.Repo.FindActiveCredentials(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", apperror.Internal(err)
	}

	ok, err := helpers.ComparePassword(in.Password, u.Password)
	if err != nil {
		// A password that fails the register pattern can never match.
		if apperror.Is(err, apperror.KindValidation) {
			return "", u.ID, ErrInvalidCredentials
		}
		return "", u.ID, err
	}
	if !ok {
		return "", u.ID, ErrInvalidCredentials
	}

	token, _, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return "", u.ID, err
	}
	return token, u.ID, nil
}

// SearchUsers queries the user index. Without an indexer it returns an
// empty result.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]*entity.User, error) {
	if s.Indexer == nil {
		return []*entity.User{}, nil
	}
	users, err := s.Indexer.Search(ctx, q, size)
	if err != nil {
		err = apperror.Upstream("search is unavailable", err)
	}
	s.Metrics.Observe(OpSearchUsers, err)
	if err != nil {
		s.logFailure(OpSearchUsers, err, logrus.Fields{"query": q})
		return nil, err
	}
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *UserService) audit(ctx context.Context, ev entity.AuditEvent) {
	if s.Audit == nil {
		return
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now().UTC()
	}
	if err := s.Audit.Record(ctx, ev); err != nil {
		s.Logger.WithError(err).WithField("action", string(ev.Action)).Warn("audit record failed")
	}
}

// logFailure logs client errors at warn and everything else at error.
func (s *UserService) logFailure(op string, err error, fields logrus.Fields) {
	entry := s.Logger.WithFields(fields).WithField("operation", op).WithError(err)
	switch apperror.KindOf(err) {
	case apperror.KindValidation, apperror.KindConflict, apperror.KindAuth,
		apperror.KindNotFound, apperror.KindBadRequest:
		entry.Warn(op + " failed")
	default:
		entry.Error(op + " failed")
	}
}
