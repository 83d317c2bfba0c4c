package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
// Optional backends (Redis, Elasticsearch, RabbitMQ, Postgres audit) are
// disabled when their address is empty.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"user-auth-service"`
	Env     string `env:"APP_ENV" envDefault:"development"` // development, staging, production
	Port    string `env:"PORT" envDefault:"4000"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	// MongoDB
	MongoURI      string        `env:"MONGO_URI,required,notEmpty"`
	MongoDatabase string        `env:"MONGO_DATABASE" envDefault:"marketplace"`
	MongoTimeout  time.Duration `env:"MONGO_TIMEOUT" envDefault:"10s"`

	// Google OAuth2
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID,required,notEmpty"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET,required,notEmpty"`
	CallbackURI        string        `env:"CALLBACK_URI,required,notEmpty"`
	OAuthHTTPTimeout   time.Duration `env:"OAUTH_HTTP_TIMEOUT" envDefault:"10s"`

	// JWT
	SecretKey string        `env:"SECRET_KEY,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// Redis
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	UserCacheTTL  time.Duration `env:"USER_CACHE_TTL" envDefault:"15s"` // capped at cache.MaxUserTTL

	// Elasticsearch
	ElasticsearchAddrs []string `env:"ELASTICSEARCH_ADDRS" envSeparator:","`
	ElasticsearchUser  string   `env:"ELASTICSEARCH_USERNAME"`
	ElasticsearchPass  string   `env:"ELASTICSEARCH_PASSWORD"`
	ESUsersIndex       string   `env:"ES_USERS_INDEX" envDefault:"users"`

	// RabbitMQ
	RabbitMQURL        string `env:"RABBITMQ_URL"`
	RabbitMQEmailQueue string `env:"RABBITMQ_EMAIL_QUEUE" envDefault:"emails"`

	// Welcome email content; delivery settings live in WorkerConfig
	SupportURL string `env:"SUPPORT_URL"`

	// Postgres audit trail
	AuditDatabaseURL string `env:"AUDIT_DATABASE_URL"`
	MigrationsDir    string `env:"MIGRATIONS_DIR" envDefault:"db/migrations"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// HTTP access log toggle
	HTTPLogEnabled bool `env:"HTTP_LOG_ENABLED" envDefault:"false"`
	// Prometheus /metrics
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads .env when present, then parses the environment. Missing
// required variables are reported together.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ElasticsearchAddrs = compact(cfg.ElasticsearchAddrs)
	cfg.CORSAllowedOrigins = compact(cfg.CORSAllowedOrigins)
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c *Config) SearchEnabled() bool { return len(c.ElasticsearchAddrs) > 0 }

func (c *Config) EmailQueueEnabled() bool { return c.RabbitMQURL != "" && c.RabbitMQEmailQueue != "" }

func (c *Config) AuditEnabled() bool { return c.AuditDatabaseURL != "" }

func compact(in []string) []string {
	res := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

// WorkerConfig is the configuration of the email worker process.
type WorkerConfig struct {
	AppName string `env:"APP_NAME" envDefault:"user-auth-service"`
	Env     string `env:"APP_ENV" envDefault:"development"`

	RabbitMQURL        string `env:"RABBITMQ_URL,required,notEmpty"`
	RabbitMQEmailQueue string `env:"RABBITMQ_EMAIL_QUEUE" envDefault:"emails"`
	Prefetch           int    `env:"EMAIL_WORKER_PREFETCH" envDefault:"16"`

	MailgunDomain   string        `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey   string        `env:"MAILGUN_API_KEY"`
	MailgunSender   string        `env:"MAILGUN_SENDER"`
	MailSendEnabled bool          `env:"MAIL_SEND_ENABLED" envDefault:"true"`
	SendTimeout     time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"15s"`
}

func LoadWorker() (*WorkerConfig, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[WorkerConfig]()
	if err != nil {
		return nil, fmt.Errorf("load worker config: %w", err)
	}
	return &cfg, nil
}

func (c *WorkerConfig) MailgunConfigured() bool {
	return c.MailgunDomain != "" && c.MailgunAPIKey != "" && c.MailgunSender != ""
}
