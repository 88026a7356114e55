package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/nexuslearn-backend/internal/catalog"
	"github.com/yungbote/nexuslearn-backend/internal/data/repos"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	"github.com/yungbote/nexuslearn-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/nexuslearn-backend/internal/pkg/errors"
	"github.com/yungbote/nexuslearn-backend/internal/platform/apierr"
	"github.com/yungbote/nexuslearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

type ScoreInput struct {
	Username string   `json:"username"`
	Subject  string   `json:"subject"`
	Paper    string   `json:"paper"`
	Scored   *float64 `json:"scored"`
	Total    *float64 `json:"total"`
}

type ProgressQuery struct {
	Username   string `form:"username"`
	Subject    string `form:"subject"`
	PaperGroup string `form:"paperGroup"`
	Window     string `form:"range"`
}

type ProgressPoint struct {
	Paper string    `json:"paper"`
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

type ProgressSeries struct {
	Subject    string          `json:"subject"`
	PaperGroup string          `json:"paper_group,omitempty"`
	Window     string          `json:"range"`
	Points     []ProgressPoint `json:"points"`
}

var progressWindows = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"3d":  3 * 24 * time.Hour,
	"1w":  7 * 24 * time.Hour,
	"1m":  30 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
	"all": 0,
}

type ScoreService interface {
	Get(ctx context.Context, username, subject, paper string) (*types.ScoreRecord, error)
	List(ctx context.Context, username string) ([]*types.ScoreRecord, error)
	Submit(ctx context.Context, in ScoreInput) (*types.ScoreRecord, error)
	Progress(ctx context.Context, q ProgressQuery) (*ProgressSeries, error)
}

type scoreService struct {
	log       *logger.Logger
	userRepo  repos.UserRepo
	scoreRepo repos.ScoreRepo
	now       func() time.Time
}

func NewScoreService(log *logger.Logger, userRepo repos.UserRepo, scoreRepo repos.ScoreRepo) ScoreService {
	return &scoreService{
		log:       log.With("service", "ScoreService"),
		userRepo:  userRepo,
		scoreRepo: scoreRepo,
		now:       time.Now,
	}
}

// resolveUser maps username onto a user the caller may act for. An empty
// username means the caller; other users are visible to admins only.
func (ss *scoreService) resolveUser(ctx context.Context, username string) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		username = rd.Username
	}
	if username != rd.Username && !rd.IsAdmin() {
		return nil, fmt.Errorf("%w: scores belong to another user", pkgerrors.ErrForbidden)
	}
	users, err := ss.userRepo.GetByUsernames(dbctx.Context{Ctx: ctx}, []string{username})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user %q", pkgerrors.ErrNotFound, username)
	}
	return users[0], nil
}

func (ss *scoreService) Get(ctx context.Context, username, subject, paper string) (*types.ScoreRecord, error) {
	v := &apierr.ValidationError{}
	if strings.TrimSpace(subject) == "" {
		v.Add("subject", "is required")
	}
	if strings.TrimSpace(paper) == "" {
		v.Add("paper", "is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	u, err := ss.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return ss.scoreRepo.Get(dbctx.Context{Ctx: ctx}, u.ID, subject, paper)
}

func (ss *scoreService) List(ctx context.Context, username string) ([]*types.ScoreRecord, error) {
	u, err := ss.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return ss.scoreRepo.ListByUser(dbctx.Context{Ctx: ctx}, u.ID)
}

// Submit records an attempt, replacing any earlier one for the same paper.
func (ss *scoreService) Submit(ctx context.Context, in ScoreInput) (*types.ScoreRecord, error) {
	v := &apierr.ValidationError{}
	subject, paper := strings.TrimSpace(in.Subject), strings.TrimSpace(in.Paper)
	if subject == "" {
		v.Add("subject", "is required")
	}
	if paper == "" {
		v.Add("paper", "is required")
	}
	switch {
	case in.Total == nil:
		v.Add("total", "is required")
	case *in.Total <= 0:
		v.Add("total", "must be greater than zero")
	}
	switch {
	case in.Scored == nil:
		v.Add("scored", "is required")
	case *in.Scored < 0:
		v.Add("scored", "must not be negative")
	case in.Total != nil && *in.Scored > *in.Total:
		v.Add("scored", "must not exceed total")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	if u := strings.ToLower(strings.TrimSpace(in.Username)); u != "" && u != rd.Username {
		return nil, fmt.Errorf("%w: scores can only be submitted for yourself", pkgerrors.ErrForbidden)
	}

	rec := &types.ScoreRecord{
		UserID:        rd.UserID,
		Subject:       subject,
		PaperIdentity: paper,
		ScoredMarks:   *in.Scored,
		TotalMarks:    *in.Total,
		Percentage:    types.Percent(*in.Scored, *in.Total),
		RecordedAt:    ss.now().UTC(),
	}
	stored, err := ss.scoreRepo.ReplaceScore(dbctx.Context{Ctx: ctx}, rec)
	if err != nil {
		return nil, err
	}
	ss.log.Info("score recorded", "user_id", rd.UserID, "subject", subject, "paper", paper)
	return stored, nil
}

// Progress is the chart series for one subject: scores for papers whose code
// starts with PaperGroup, recorded inside Window, oldest first.
func (ss *scoreService) Progress(ctx context.Context, q ProgressQuery) (*ProgressSeries, error) {
	window := strings.ToLower(strings.TrimSpace(q.Window))
	if window == "" {
		window = "all"
	}
	span, ok := progressWindows[window]
	v := &apierr.ValidationError{}
	if !ok {
		v.Add("range", "must be one of 1d, 3d, 1w, 1m, 1y, all")
	}
	subject := strings.TrimSpace(q.Subject)
	if subject == "" {
		v.Add("subject", "is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	u, err := ss.resolveUser(ctx, q.Username)
	if err != nil {
		return nil, err
	}
	recs, err := ss.scoreRepo.ListByUser(dbctx.Context{Ctx: ctx}, u.ID)
	if err != nil {
		return nil, err
	}

	group := strings.TrimSpace(q.PaperGroup)
	var since time.Time
	if span > 0 {
		since = ss.now().Add(-span)
	}
	points := make([]ProgressPoint, 0, len(recs))
	for _, r := range recs {
		if r.Subject != subject {
			continue
		}
		if span > 0 && r.RecordedAt.Before(since) {
			continue
		}
		if group != "" {
			k, ok := catalog.ParseIdentity(r.PaperIdentity)
			if !ok || !strings.HasPrefix(k.Code, group) {
				continue
			}
		}
		points = append(points, ProgressPoint{Paper: r.PaperIdentity, Date: r.RecordedAt, Score: r.Percentage})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return &ProgressSeries{Subject: subject, PaperGroup: group, Window: window, Points: points}, nil
}
