package repos

import (
	"github.com/yungbote/nexuslearn-backend/internal/data/repos/resources"
	"github.com/yungbote/nexuslearn-backend/internal/data/repos/scores"
	"github.com/yungbote/nexuslearn-backend/internal/data/repos/user"
)

type UserRepo = user.UserRepo
type ResourceRepo = resources.ResourceRepo
type ScoreRepo = scores.ScoreRepo

type ResourceActiveQuery = resources.ActiveQuery
type ResourceListQuery = resources.ListQuery

var (
	NewUserRepo     = user.NewUserRepo
	NewResourceRepo = resources.NewResourceRepo
	NewScoreRepo    = scores.NewScoreRepo
)
