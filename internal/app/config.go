package app

import (
	"time"

	"github.com/yungbote/nexuslearn-backend/internal/data/db"
	"github.com/yungbote/nexuslearn-backend/internal/observability"
	"github.com/yungbote/nexuslearn-backend/internal/platform/envutil"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
	"github.com/yungbote/nexuslearn-backend/internal/services"
)

const defaultJWTSecret = "defaultsecret"

type AdminSeed struct {
	Username string
	Email    string
	Password string
}

func (a AdminSeed) Enabled() bool { return a.Username != "" && a.Password != "" }

type Config struct {
	Port            string
	DB              db.Config
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RedisAddr       string
	CatalogCacheTTL time.Duration
	CORSOrigins     []string
	Otel            observability.OtelConfig
	Admin           AdminSeed
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", defaultJWTSecret, log)
	if jwtSecretKey == defaultJWTSecret && log != nil {
		log.Warn("JWT_SECRET_KEY not set, using insecure default")
	}
	return Config{
		Port: envutil.String("PORT", "8080", log),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres, log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "nexuslearn", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "nexuslearn.db", log),
		},
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", services.DefaultAccessTTL, log),
		RedisAddr:       envutil.String("REDIS_ADDR", "", log),
		CatalogCacheTTL: envutil.Seconds("CATALOG_CACHE_TTL", 30*time.Second, log),
		CORSOrigins:     envutil.List("CORS_ORIGINS"),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "nexuslearn-backend", log),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1, log),
		},
		Admin: AdminSeed{
			Username: envutil.String("ADMIN_USERNAME", "", log),
			Email:    envutil.String("ADMIN_EMAIL", "", log),
			Password: envutil.String("ADMIN_PASSWORD", "", log),
		},
	}
}
