package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/oksasatya/user-auth-service/config"
	"github.com/oksasatya/user-auth-service/internal/application"
	mongoinfra "github.com/oksasatya/user-auth-service/internal/infrastructure/mongodb"
	"github.com/oksasatya/user-auth-service/pkg/apperror"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
	"github.com/oksasatya/user-auth-service/pkg/validation"
)

// Seeds one demo buyer through the same registration path the API uses.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	client, err := mongoinfra.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := mongoinfra.NewUserRepository(client.Database(cfg.MongoDatabase))
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	users := application.NewUserService(repo, helpers.NewJWTManager(cfg.SecretKey, cfg.JWTTTL), logger, nil)

	in := validation.RegisterInput{
		FirstName: envOr("SEED_FIRST_NAME", "Demo"),
		LastName:  envOr("SEED_LAST_NAME", "Buyer"),
		Email:     envOr("SEED_EMAIL", "demo.buyer@example.com"),
		Password:  envOr("SEED_PASSWORD", "password123"),
	}
	u, err := users.Register(ctx, in)
	if apperror.Is(err, apperror.KindConflict) {
		fmt.Printf("user already exists: email=%s\n", in.Email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, in.Password)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
