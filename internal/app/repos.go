package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/nexuslearn-backend/internal/data/repos"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

type Repos struct {
	User     repos.UserRepo
	Resource repos.ResourceRepo
	Score    repos.ScoreRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Resource: repos.NewResourceRepo(db, log),
		Score:    repos.NewScoreRepo(db, log),
	}
}
