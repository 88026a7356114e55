package scores

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/nexuslearn-backend/internal/data/db"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	"github.com/yungbote/nexuslearn-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/nexuslearn-backend/internal/pkg/errors"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

type ScoreRepo interface {
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ScoreRecord, error)
	Get(dbc dbctx.Context, userID uuid.UUID, subject, paper string) (*types.ScoreRecord, error)
	ReplaceScore(dbc dbctx.Context, rec *types.ScoreRecord) (*types.ScoreRecord, error)
}

type scoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRepo {
	repoLog := baseLog.With("repo", "ScoreRepo")
	return &scoreRepo{db: db, log: repoLog}
}

// ListByUser returns the user's records oldest first.
func (sr *scoreRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ScoreRecord, error) {
	var results []*types.ScoreRecord
	if err := dbc.Conn(sr.db).
		Where("user_id = ?", userID).
		Order("recorded_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *scoreRepo) Get(dbc dbctx.Context, userID uuid.UUID, subject, paper string) (*types.ScoreRecord, error) {
	var rec types.ScoreRecord
	if err := dbc.Conn(sr.db).
		Where("user_id = ? AND subject = ? AND paper_identity = ?", userID, strings.TrimSpace(subject), strings.TrimSpace(paper)).
		First(&rec).Error; err != nil {
		return nil, db.MapError(err)
	}
	return &rec, nil
}

// ReplaceScore stores rec as the only record for its (user, subject, paper),
// overwriting any earlier one. ErrNotFound when the user does not exist.
func (sr *scoreRepo) ReplaceScore(dbc dbctx.Context, rec *types.ScoreRecord) (*types.ScoreRecord, error) {
	rec.Subject = strings.TrimSpace(rec.Subject)
	rec.PaperIdentity = strings.TrimSpace(rec.PaperIdentity)

	var stored types.ScoreRecord
	err := dbc.Conn(sr.db).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&types.User{}).Where("id = ?", rec.UserID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return pkgerrors.ErrNotFound
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "subject"}, {Name: "paper_identity"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"scored_marks", "total_marks", "percentage", "recorded_at", "updated_at",
			}),
		}).Create(rec).Error; err != nil {
			return err
		}
		return tx.
			Where("user_id = ? AND subject = ? AND paper_identity = ?", rec.UserID, rec.Subject, rec.PaperIdentity).
			First(&stored).Error
	})
	if err != nil {
		return nil, db.MapError(err)
	}
	return &stored, nil
}
