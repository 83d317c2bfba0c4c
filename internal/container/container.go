package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/user-auth-service/config"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
	"github.com/oksasatya/user-auth-service/pkg/metrics"
)

// app-level container to share constructed components across packages.
// The router builds its modules from these singletons. Optional backends
// stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	esClient    *elasticsearch.Client
	rabbitPub   *helpers.RabbitPublisher

	jwtManager *helpers.JWTManager
	appMetrics *metrics.Metrics
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger != nil {
		return logger
	}
	return helpers.DiscardLogger()
}

func SetMongo(c *mongo.Client, db *mongo.Database) { mongoClient, mongoDB = c, db }
func GetMongoClient() *mongo.Client               { return mongoClient }
func GetMongoDB() *mongo.Database                 { return mongoDB }

func SetPGPool(p *pgxpool.Pool) { pgPool = p }
func GetPGPool() *pgxpool.Pool  { return pgPool }
func SetRedis(r *redis.Client)  { redisClient = r }
func GetRedis() *redis.Client   { return redisClient }

func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetMetrics(m *metrics.Metrics) { appMetrics = m }
func GetMetrics() *metrics.Metrics {
	if appMetrics == nil {
		appMetrics = metrics.New()
	}
	return appMetrics
}
