package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/nexuslearn-backend/internal/app"
	"github.com/yungbote/nexuslearn-backend/internal/data/db"
	"github.com/yungbote/nexuslearn-backend/internal/data/repos"
	"github.com/yungbote/nexuslearn-backend/internal/platform/envutil"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

type env struct {
	log   *logger.Logger
	cfg   app.Config
	db    *db.Service
	users repos.UserRepo
	res   repos.ResourceRepo
}

// openEnv connects to the configured database and migrates it.
func openEnv(ctx context.Context) (*env, error) {
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	envutil.LoadDotEnv(log)
	cfg := app.LoadConfig(log)

	dbService, err := db.NewService(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbService.DB().WithContext(ctx)); err != nil {
		_ = dbService.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return &env{
		log:   log,
		cfg:   cfg,
		db:    dbService,
		users: repos.NewUserRepo(dbService.DB(), log),
		res:   repos.NewResourceRepo(dbService.DB(), log),
	}, nil
}

func (e *env) Close() {
	_ = e.db.Close()
	e.log.Sync()
}
