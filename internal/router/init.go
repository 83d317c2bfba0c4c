package router

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/oksasatya/user-auth-service/internal/application"
	"github.com/oksasatya/user-auth-service/internal/container"
	"github.com/oksasatya/user-auth-service/internal/infrastructure/cache"
	mongoinfra "github.com/oksasatya/user-auth-service/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/user-auth-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-auth-service/internal/infrastructure/search"
	gql "github.com/oksasatya/user-auth-service/internal/interface/graphql"
	handlers "github.com/oksasatya/user-auth-service/internal/interface/http"
	"github.com/oksasatya/user-auth-service/internal/router/modules"
)

// AuthModuleDeps are the application services shared by the GraphQL and
// OAuth modules.
type AuthModuleDeps struct {
	Users *application.UserService
	OAuth *application.OAuthService
}

func buildAuthDeps() AuthModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	m := container.GetMetrics()
	jwt := container.GetJWT()

	repo := mongoinfra.NewUserRepository(container.GetMongoDB())

	users := application.NewUserService(repo, jwt, logger, m)
	users.AppName = cfg.AppName
	users.SupportURL = cfg.SupportURL
	if rdb := container.GetRedis(); rdb != nil {
		users.Cache = cache.NewUserCache(rdb, cfg.UserCacheTTL, logger)
	}
	if es := container.GetES(); es != nil {
		users.Indexer = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		users.Emails = pub
	}

	oauth := application.NewOAuthService(application.GoogleOAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.CallbackURI,
		Timeout:      cfg.OAuthHTTPTimeout,
	}, repo, jwt, logger, m)

	if pool := container.GetPGPool(); pool != nil {
		audit := pginfra.NewAuditRepository(pool)
		users.Audit = audit
		oauth.Audit = audit
	}

	return AuthModuleDeps{Users: users, OAuth: oauth}
}

func healthChecks() map[string]handlers.Check {
	checks := map[string]handlers.Check{
		"mongo": func(ctx context.Context) error {
			return container.GetMongoClient().Ping(ctx, readpref.Primary())
		},
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	return checks
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	deps := buildAuthDeps()

	schema := gql.NewSchema(gql.NewResolver(deps.Users, logger))
	r.Add(modules.NewGraphQLModule(gql.NewHandler(schema, logger), container.GetJWT()))
	r.Add(modules.NewOAuthModule(handlers.NewOAuthHandler(deps.OAuth, logger)))

	health := handlers.NewHealthHandler(healthChecks(), logger)
	if cfg.MetricsEnabled {
		r.Add(modules.NewOpsModule(health, container.GetMetrics()))
	} else {
		r.Add(modules.NewOpsModule(health, nil))
	}
}
