package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/nexuslearn-backend/internal/catalog"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
	"github.com/yungbote/nexuslearn-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Catalog  services.CatalogService
	Resource services.ResourceService
	Score    services.ScoreService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, static *catalog.StaticCatalog) Services {
	log.Info("Wiring services...")
	cached := catalog.NewCachedSource(services.NewRecordSource(repos.Resource), clients.CacheStore, cfg.CatalogCacheTTL, log)
	aggregator := catalog.NewAggregator(static, cached, log)
	return Services{
		Auth:     services.NewAuthService(db, log, repos.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Catalog:  services.NewCatalogService(log, aggregator, cached),
		Resource: services.NewResourceService(db, log, repos.Resource, cached),
		Score:    services.NewScoreService(log, repos.User, repos.Score),
	}
}

// seedAdmin applies ADMIN_* when present.
func seedAdmin(ctx context.Context, log *logger.Logger, auth services.AuthService, seed AdminSeed) error {
	if !seed.Enabled() {
		return nil
	}
	u, created, err := auth.EnsureAdmin(ctx, services.SignupInput{
		Username: seed.Username,
		Email:    seed.Email,
		Password: seed.Password,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info("Admin account ensured", "username", u.Username, "created", created)
	return nil
}
