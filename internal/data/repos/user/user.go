package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/nexuslearn-backend/internal/data/db"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	"github.com/yungbote/nexuslearn-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/nexuslearn-backend/internal/pkg/errors"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error)
	GetByUsernames(dbc dbctx.Context, usernames []string) ([]*types.User, error)
	GetByIdentifier(dbc dbctx.Context, identifier string) (*types.User, error)
	Exists(dbc dbctx.Context, username, email string) (usernameTaken bool, emailTaken bool, err error)
	UpdateRole(dbc dbctx.Context, id uuid.UUID, role string) error
	TouchLogin(dbc dbctx.Context, id uuid.UUID, at time.Time) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	for _, u := range users {
		u.Username = normalize(u.Username)
		u.Email = normalize(u.Email)
	}
	if err := dbc.Conn(ur.db).Create(&users).Error; err != nil {
		return nil, db.MapError(err)
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Conn(ur.db).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByUsernames(dbc dbctx.Context, usernames []string) ([]*types.User, error) {
	var results []*types.User
	if len(usernames) == 0 {
		return results, nil
	}
	names := make([]string, 0, len(usernames))
	for _, n := range usernames {
		names = append(names, normalize(n))
	}
	if err := dbc.Conn(ur.db).
		Where("username IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByIdentifier matches a username or an email address.
func (ur *userRepo) GetByIdentifier(dbc dbctx.Context, identifier string) (*types.User, error) {
	id := normalize(identifier)
	if id == "" {
		return nil, pkgerrors.ErrNotFound
	}
	var u types.User
	err := dbc.Conn(ur.db).
		Where("username = ? OR email = ?", id, id).
		First(&u).Error
	if err != nil {
		return nil, db.MapError(err)
	}
	return &u, nil
}

func (ur *userRepo) Exists(dbc dbctx.Context, username, email string) (bool, bool, error) {
	var rows []*types.User
	if err := dbc.Conn(ur.db).
		Select("username", "email").
		Where("username = ? OR email = ?", normalize(username), normalize(email)).
		Find(&rows).Error; err != nil {
		return false, false, err
	}
	var nameTaken, emailTaken bool
	for _, r := range rows {
		if r.Username == normalize(username) {
			nameTaken = true
		}
		if r.Email == normalize(email) {
			emailTaken = true
		}
	}
	return nameTaken, emailTaken, nil
}

func (ur *userRepo) UpdateRole(dbc dbctx.Context, id uuid.UUID, role string) error {
	res := dbc.Conn(ur.db).
		Model(&types.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"role": role, "is_active": true})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (ur *userRepo) TouchLogin(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	return dbc.Conn(ur.db).
		Model(&types.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}
