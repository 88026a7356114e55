package domain

import (
	"github.com/yungbote/nexuslearn-backend/internal/domain/resources"
	"github.com/yungbote/nexuslearn-backend/internal/domain/scores"
	"github.com/yungbote/nexuslearn-backend/internal/domain/user"
)

const (
	RoleUser  = user.RoleUser
	RoleAdmin = user.RoleAdmin
)

type (
	User        = user.User
	Resource    = resources.Resource
	ScoreRecord = scores.ScoreRecord
)

var Percent = scores.Percent

// Models lists every persisted type, in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Resource{},
		&ScoreRecord{},
	}
}
