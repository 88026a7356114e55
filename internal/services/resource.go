package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/nexuslearn-backend/internal/catalog"
	"github.com/yungbote/nexuslearn-backend/internal/data/repos"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	"github.com/yungbote/nexuslearn-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/nexuslearn-backend/internal/pkg/errors"
	"github.com/yungbote/nexuslearn-backend/internal/platform/apierr"
	"github.com/yungbote/nexuslearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

// ResourceInput is an admin write. Nil fields are left unchanged on update.
// Link slots accept either the document names (link1/link2) or the paper
// names (qp/ms/sf); the section decides which wins when both are sent.
type ResourceInput struct {
	Type      *string `json:"type"`
	Subject   *string `json:"subject"`
	Section   *string `json:"section"`
	DataKey   *string `json:"dataKey"`
	Name      *string `json:"name"`
	Size      *int    `json:"size"`
	Link1     *string `json:"link1"`
	Link2     *string `json:"link2"`
	QP        *string `json:"qp"`
	MS        *string `json:"ms"`
	SF        *string `json:"sf"`
	Text1     *string `json:"text1"`
	Text2     *string `json:"text2"`
	Text3     *string `json:"text3"`
	Session   *string `json:"session"`
	Year      *string `json:"year"`
	PaperCode *string `json:"paperCode"`
	Order     *int    `json:"order"`
	IsActive  *bool   `json:"isActive"`
}

type ResourceListInput struct {
	Type       string `form:"type"`
	Subject    string `form:"subject"`
	Section    string `form:"section"`
	ActiveOnly bool   `form:"activeOnly"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

type ResourcePage struct {
	Items []*types.Resource `json:"resources"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type ResourceService interface {
	Create(ctx context.Context, in ResourceInput) (*types.Resource, error)
	Update(ctx context.Context, id uuid.UUID, in ResourceInput) (*types.Resource, error)
	Delete(ctx context.Context, id uuid.UUID, hard bool) error
	List(ctx context.Context, in ResourceListInput) (*ResourcePage, error)
}

type resourceService struct {
	db          *gorm.DB
	log         *logger.Logger
	repo        repos.ResourceRepo
	invalidator CatalogInvalidator
}

func NewResourceService(db *gorm.DB, log *logger.Logger, repo repos.ResourceRepo, invalidator CatalogInvalidator) ResourceService {
	return &resourceService{
		db:          db,
		log:         log.With("service", "ResourceService"),
		repo:        repo,
		invalidator: invalidator,
	}
}

func requireAdmin(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	if !rd.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", pkgerrors.ErrForbidden)
	}
	return rd, nil
}

func (rs *resourceService) Create(ctx context.Context, in ResourceInput) (*types.Resource, error) {
	rd, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	r := &types.Resource{SizeHint: catalog.DefaultSizeHint, IsActive: true, CreatedBy: rd.Username}
	applyResourceInput(r, in)
	if err := normalizeResource(r); err != nil {
		return nil, err
	}

	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := rs.checkIdentity(dbc, r); err != nil {
			return err
		}
		if _, err := rs.repo.Create(dbc, r); err != nil {
			return fmt.Errorf("create resource: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	rs.invalidate(ctx, r.Type)
	rs.log.Info("resource created", "id", r.ID, "type", r.Type, "section", r.Section, "identity", r.IdentityValue(), "created_by", rd.Username)
	return r, nil
}

func (rs *resourceService) Update(ctx context.Context, id uuid.UUID, in ResourceInput) (*types.Resource, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	var (
		updated *types.Resource
		oldType string
	)
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		r, err := rs.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		oldType = r.Type
		applyResourceInput(r, in)
		if err := normalizeResource(r); err != nil {
			return err
		}
		if err := rs.checkIdentity(dbc, r); err != nil {
			return err
		}
		updated, err = rs.repo.Update(dbc, r)
		if err != nil {
			return fmt.Errorf("update resource: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	rs.invalidate(ctx, oldType)
	if updated.Type != oldType {
		rs.invalidate(ctx, updated.Type)
	}
	return updated, nil
}

// Delete deactivates the record, or removes it when hard is set.
func (rs *resourceService) Delete(ctx context.Context, id uuid.UUID, hard bool) error {
	rd, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	var typ string
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		r, err := rs.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		typ = r.Type
		if hard {
			return rs.repo.HardDelete(dbc, id)
		}
		return rs.repo.SoftDelete(dbc, id)
	})
	if err != nil {
		return err
	}
	rs.invalidate(ctx, typ)
	rs.log.Info("resource deleted", "id", id, "hard", hard, "by", rd.Username)
	return nil
}

func (rs *resourceService) List(ctx context.Context, in ResourceListInput) (*ResourcePage, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	page, limit := in.Page, in.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	items, total, err := rs.repo.List(dbctx.Context{Ctx: ctx}, repos.ResourceListQuery{
		Type:       strings.ToLower(strings.TrimSpace(in.Type)),
		Subject:    in.Subject,
		Section:    strings.ToLower(strings.TrimSpace(in.Section)),
		ActiveOnly: in.ActiveOnly,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	return &ResourcePage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (rs *resourceService) checkIdentity(dbc dbctx.Context, r *types.Resource) error {
	exists, err := rs.repo.IdentityExists(dbc, r)
	if err != nil {
		return fmt.Errorf("check identity: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: a resource with id %q already exists in this section", pkgerrors.ErrConflict, r.IdentityValue())
	}
	return nil
}

func (rs *resourceService) invalidate(ctx context.Context, t string) {
	if rs.invalidator == nil {
		return
	}
	if err := rs.invalidator.Invalidate(ctx, catalog.QualificationType(t)); err != nil {
		rs.log.Warn("catalog cache invalidation failed", "type", t, "error", err)
	}
}

func applyResourceInput(r *types.Resource, in ResourceInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.Type, in.Type)
	set(&r.Subject, in.Subject)
	set(&r.Section, in.Section)
	set(&r.DataKey, in.DataKey)
	set(&r.Name, in.Name)
	set(&r.Session, in.Session)
	set(&r.Year, in.Year)
	set(&r.PaperCode, in.PaperCode)
	set(&r.PrimaryLabel, in.Text1)
	set(&r.SecondaryLabel, in.Text2)
	set(&r.ExtraLabel, in.Text3)
	set(&r.ExtraURL, in.SF)
	if in.Size != nil {
		r.SizeHint = *in.Size
	}
	if in.Order != nil {
		r.Order = *in.Order
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}

	primary, secondary := in.Link1, in.Link2
	fallbackPrimary, fallbackSecondary := in.QP, in.MS
	if strings.EqualFold(strings.TrimSpace(r.Section), string(catalog.SectionYearly)) {
		primary, secondary = in.QP, in.MS
		fallbackPrimary, fallbackSecondary = in.Link1, in.Link2
	}
	if primary == nil {
		primary = fallbackPrimary
	}
	if secondary == nil {
		secondary = fallbackSecondary
	}
	set(&r.PrimaryURL, primary)
	set(&r.SecondaryURL, secondary)
}

// normalizeResource trims and validates r and derives its identity.
func normalizeResource(r *types.Resource) error {
	v := &apierr.ValidationError{}

	q, ok := catalog.ParseQualificationType(r.Type)
	if !ok {
		v.Add("type", "must be one of alevel, sat, olevel, igcse")
	}
	r.Type = string(q)
	r.Subject = strings.TrimSpace(r.Subject)
	if r.Subject == "" {
		v.Add("subject", "is required")
	}
	sec, ok := catalog.ParseSection(r.Section)
	if !ok {
		v.Add("section", "must be one of books, yearly, topical, sa_resources")
	}
	r.Section = string(sec)
	r.DataKey = strings.ToLower(strings.TrimSpace(r.DataKey))
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		v.Add("name", "is required")
	}
	if r.SizeHint < 1 {
		v.Add("size", "must be positive")
	}
	for _, p := range []*string{&r.PrimaryURL, &r.SecondaryURL, &r.ExtraURL, &r.PrimaryLabel, &r.SecondaryLabel, &r.ExtraLabel} {
		*p = strings.TrimSpace(*p)
	}

	r.Session = strings.ToLower(strings.TrimSpace(r.Session))
	r.Year = strings.TrimSpace(r.Year)
	r.PaperCode = strings.TrimSpace(r.PaperCode)
	r.Identity = nil
	if sec == catalog.SectionYearly {
		if r.Session == "" {
			v.Add("session", "is required for yearly papers")
		} else if strings.Contains(r.Session, "_") {
			v.Add("session", "must not contain '_'")
		}
		if r.Year == "" {
			v.Add("year", "is required for yearly papers")
		} else if _, err := strconv.Atoi(r.Year); err != nil {
			v.Add("year", "must be numeric")
		}
		if r.PaperCode == "" {
			v.Add("paperCode", "is required for yearly papers")
		} else if strings.Contains(r.PaperCode, "_") {
			v.Add("paperCode", "must not contain '_'")
		}
		if id := catalog.DeriveIdentity(r.Session, r.Year, r.PaperCode); id != "" {
			r.Identity = &id
		}
	}
	return v.Err()
}
