package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-auth-service/config"
	"github.com/oksasatya/user-auth-service/internal/container"
	mongoinfra "github.com/oksasatya/user-auth-service/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/user-auth-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-auth-service/internal/infrastructure/search"
	"github.com/oksasatya/user-auth-service/internal/interface/middleware"
	"github.com/oksasatya/user-auth-service/internal/router"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
	"github.com/oksasatya/user-auth-service/pkg/metrics"
	"github.com/oksasatya/user-auth-service/pkg/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// MongoDB (required)
	mongoClient, err := mongoinfra.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	db := mongoClient.Database(cfg.MongoDatabase)
	if err := mongoinfra.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		logger.WithError(err).Fatal("failed to ensure user indexes")
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetMongo(mongoClient, db)
	container.SetJWT(helpers.NewJWTManager(cfg.SecretKey, cfg.JWTTTL))
	container.SetMetrics(metrics.New())

	// Optional backends; a failure disables the feature instead of aborting.
	closers := setupOptional(ctx, cfg, logger)
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(container.GetMetrics()))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled || cfg.IsDevelopment() {
		r.Use(middleware.AccessLog(logger))
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{"port": cfg.Port, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func setupOptional(ctx context.Context, cfg *config.Config, logger *logrus.Logger) []func() {
	var closers []func()

	if cfg.RedisEnabled() {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unavailable; user cache disabled")
			_ = rdb.Close()
		} else {
			container.SetRedis(rdb)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	if cfg.SearchEnabled() {
		es, err := helpers.NewESClient(cfg.ElasticsearchAddrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = search.NewUserIndex(es, cfg.ESUsersIndex).EnsureIndex(ctx)
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; user search disabled")
		} else {
			container.SetES(es)
		}
	}

	if cfg.EmailQueueEnabled() {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; welcome emails disabled")
		} else {
			container.SetRabbitPub(pub)
			closers = append(closers, pub.Close)
		}
	}

	if cfg.AuditEnabled() {
		if err := pginfra.RunMigrations(cfg.AuditDatabaseURL, cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Warn("audit migrations failed; audit trail disabled")
			return closers
		}
		pool, err := pginfra.NewPool(ctx, cfg.AuditDatabaseURL, pginfra.PoolOptions{})
		if err != nil {
			logger.WithError(err).Warn("postgres unavailable; audit trail disabled")
			return closers
		}
		container.SetPGPool(pool)
		closers = append(closers, pool.Close)
	}

	return closers
}
