package app

import (
	"testing"
	"time"

	"github.com/yungbote/nexuslearn-backend/internal/data/db"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
	"github.com/yungbote/nexuslearn-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "ACCESS_TOKEN_TTL", "CATALOG_CACHE_TTL", "REDIS_ADDR", "CORS_ORIGINS", "ADMIN_USERNAME", "ADMIN_PASSWORD", "OTEL_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "8080" {
		t.Fatalf("Port got=%q want=8080", cfg.Port)
	}
	if cfg.DB.Driver != db.DriverPostgres {
		t.Fatalf("Driver got=%q want=%q", cfg.DB.Driver, db.DriverPostgres)
	}
	if cfg.AccessTokenTTL != services.DefaultAccessTTL {
		t.Fatalf("AccessTokenTTL got=%s want=%s", cfg.AccessTokenTTL, services.DefaultAccessTTL)
	}
	if cfg.CatalogCacheTTL != 30*time.Second {
		t.Fatalf("CatalogCacheTTL got=%s", cfg.CatalogCacheTTL)
	}
	if cfg.Admin.Enabled() || cfg.Otel.Enabled || len(cfg.CORSOrigins) != 0 {
		t.Fatalf("unexpected optional features enabled: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("ACCESS_TOKEN_TTL", "60")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_PASSWORD", "hunter22")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.5")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-key=abc")

	cfg := LoadConfig(logger.Nop())
	if cfg.DB.Driver != db.DriverSQLite || cfg.DB.SQLitePath != "/tmp/x.db" {
		t.Fatalf("db config got=%+v", cfg.DB)
	}
	if cfg.AccessTokenTTL != time.Minute {
		t.Fatalf("AccessTokenTTL got=%s want=1m", cfg.AccessTokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("CORSOrigins got=%q", cfg.CORSOrigins)
	}
	if !cfg.Admin.Enabled() {
		t.Fatalf("expected admin seed enabled")
	}
	if cfg.Otel.SampleRatio != 0.5 || cfg.Otel.Headers["x-key"] != "abc" {
		t.Fatalf("otel config got=%+v", cfg.Otel)
	}
}

func TestWireClientsDefaultsToMemoryStore(t *testing.T) {
	c, err := wireClients(logger.Nop(), Config{})
	if err != nil {
		t.Fatalf("wireClients: %v", err)
	}
	if c.CacheStore == nil || c.redis != nil {
		t.Fatalf("expected in-process store, got=%+v", c)
	}
}
