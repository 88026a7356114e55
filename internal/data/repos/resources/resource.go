package resources

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/nexuslearn-backend/internal/data/db"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	domainresources "github.com/yungbote/nexuslearn-backend/internal/domain/resources"
	"github.com/yungbote/nexuslearn-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/nexuslearn-backend/internal/pkg/errors"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

// ActiveQuery selects active records. Empty fields are not filtered on; when
// both Section and DataKey are set a record matches on either.
type ActiveQuery struct {
	Type    string
	Subject string
	Section string
	DataKey string
}

type ListQuery struct {
	Type       string
	Subject    string
	Section    string
	ActiveOnly bool
	Page       int
	Limit      int
}

type ResourceRepo interface {
	Create(dbc dbctx.Context, r *types.Resource) (*types.Resource, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Resource, error)
	Update(dbc dbctx.Context, r *types.Resource) (*types.Resource, error)
	SoftDelete(dbc dbctx.Context, id uuid.UUID) error
	HardDelete(dbc dbctx.Context, id uuid.UUID) error
	FindActive(dbc dbctx.Context, q ActiveQuery) ([]*types.Resource, error)
	List(dbc dbctx.Context, q ListQuery) ([]*types.Resource, int64, error)
	IdentityExists(dbc dbctx.Context, r *types.Resource) (bool, error)
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	repoLog := baseLog.With("repo", "ResourceRepo")
	return &resourceRepo{db: db, log: repoLog}
}

func (rr *resourceRepo) Create(dbc dbctx.Context, r *types.Resource) (*types.Resource, error) {
	if err := dbc.Conn(rr.db).Create(r).Error; err != nil {
		return nil, db.MapError(err)
	}
	return r, nil
}

func (rr *resourceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Resource, error) {
	var r types.Resource
	if err := dbc.Conn(rr.db).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, db.MapError(err)
	}
	return &r, nil
}

// Update overwrites every mutable column of r.
func (rr *resourceRepo) Update(dbc dbctx.Context, r *types.Resource) (*types.Resource, error) {
	if r.ID == uuid.Nil {
		return nil, pkgerrors.ErrNotFound
	}
	r.SubjectKey = domainresources.SubjectKey(r.Subject)
	res := dbc.Conn(rr.db).
		Model(r).
		Select("*").
		Omit("id", "created_at", "created_by").
		Updates(r)
	if res.Error != nil {
		return nil, db.MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return rr.GetByID(dbc, r.ID)
}

func (rr *resourceRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.Conn(rr.db).
		Model(&types.Resource{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (rr *resourceRepo) HardDelete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.Conn(rr.db).Where("id = ?", id).Delete(&types.Resource{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

// FindActive returns matching active records in insertion order.
func (rr *resourceRepo) FindActive(dbc dbctx.Context, q ActiveQuery) ([]*types.Resource, error) {
	var results []*types.Resource
	tx := dbc.Conn(rr.db).Where("is_active = ?", true)
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if key := domainresources.SubjectKey(q.Subject); key != "" {
		tx = tx.Where("subject_key = ?", key)
	}
	section, dataKey := strings.TrimSpace(q.Section), strings.TrimSpace(q.DataKey)
	switch {
	case section != "" && dataKey != "":
		tx = tx.Where("(section = ? OR data_key = ?)", section, dataKey)
	case section != "":
		tx = tx.Where("section = ?", section)
	case dataKey != "":
		tx = tx.Where("data_key = ?", dataKey)
	}
	if err := tx.Order("created_at ASC").Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// List is the admin listing, newest first. Inactive records are included
// unless ActiveOnly is set.
func (rr *resourceRepo) List(dbc dbctx.Context, q ListQuery) ([]*types.Resource, int64, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	tx := dbc.Conn(rr.db).Model(&types.Resource{})
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if key := domainresources.SubjectKey(q.Subject); key != "" {
		tx = tx.Where("subject_key = ?", key)
	}
	if q.Section != "" {
		tx = tx.Where("section = ?", q.Section)
	}
	if q.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.Resource
	if err := tx.
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// IdentityExists reports whether another record in r's partition, active or
// not, already carries r's identity.
func (rr *resourceRepo) IdentityExists(dbc dbctx.Context, r *types.Resource) (bool, error) {
	id := r.IdentityValue()
	if id == "" {
		return false, nil
	}
	var count int64
	tx := dbc.Conn(rr.db).
		Model(&types.Resource{}).
		Where("type = ? AND subject_key = ? AND section = ? AND data_key = ? AND identity = ?",
			r.Type, domainresources.SubjectKey(r.Subject), r.Section, r.DataKey, id)
	if r.ID != uuid.Nil {
		tx = tx.Where("id <> ?", r.ID)
	}
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
