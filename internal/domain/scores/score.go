package scores

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScoreRecord is one user's latest attempt at a paper. The unique index keeps
// a single row per (user, subject, paper); resubmissions overwrite it.
type ScoreRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_score_user_paper,priority:1;column:user_id" json:"user_id"`
	Subject       string    `gorm:"not null;uniqueIndex:idx_score_user_paper,priority:2;column:subject" json:"subject"`
	PaperIdentity string    `gorm:"not null;uniqueIndex:idx_score_user_paper,priority:3;column:paper_identity" json:"paper"`
	ScoredMarks   float64   `gorm:"not null;column:scored_marks" json:"scored"`
	TotalMarks    float64   `gorm:"not null;column:total_marks" json:"total"`
	Percentage    float64   `gorm:"not null;column:percentage" json:"score"`
	RecordedAt    time.Time `gorm:"not null;index;column:recorded_at" json:"date"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScoreRecord) TableName() string { return "score_record" }

func (s *ScoreRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Percent returns scored/total*100, or 0 when total is not positive.
func Percent(scored, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return scored / total * 100
}
