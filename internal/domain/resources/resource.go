package resources

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resource is an admin-managed catalog record. The three link slots are
// positional; their meaning depends on Section (see catalog.Links).
type Resource struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Type       string `gorm:"not null;index:idx_resource_partition,priority:1;uniqueIndex:idx_resource_identity,priority:1;column:type" json:"type"`
	Subject    string `gorm:"not null;column:subject" json:"subject"`
	SubjectKey string `gorm:"not null;index:idx_resource_partition,priority:2;uniqueIndex:idx_resource_identity,priority:2;column:subject_key" json:"-"`
	Section    string `gorm:"not null;index:idx_resource_partition,priority:3;uniqueIndex:idx_resource_identity,priority:3;column:section" json:"section"`
	DataKey    string `gorm:"not null;default:'';index:idx_resource_partition,priority:4;uniqueIndex:idx_resource_identity,priority:4;column:data_key" json:"data_key,omitempty"`

	Name     string `gorm:"not null;column:name" json:"name"`
	SizeHint int    `gorm:"not null;default:3;column:size_hint" json:"size"`

	PrimaryURL     string `gorm:"column:primary_url" json:"primary_url,omitempty"`
	PrimaryLabel   string `gorm:"column:primary_label" json:"primary_label,omitempty"`
	SecondaryURL   string `gorm:"column:secondary_url" json:"secondary_url,omitempty"`
	SecondaryLabel string `gorm:"column:secondary_label" json:"secondary_label,omitempty"`
	ExtraURL       string `gorm:"column:extra_url" json:"extra_url,omitempty"`
	ExtraLabel     string `gorm:"column:extra_label" json:"extra_label,omitempty"`

	Session   string  `gorm:"column:session" json:"session,omitempty"`
	Year      string  `gorm:"column:year" json:"year,omitempty"`
	PaperCode string  `gorm:"column:paper_code" json:"paper_code,omitempty"`
	Identity  *string `gorm:"uniqueIndex:idx_resource_identity,priority:5;column:identity" json:"identity,omitempty"`

	Order     int    `gorm:"not null;default:0;column:sort_order" json:"order"`
	IsActive  bool   `gorm:"not null;index;column:is_active" json:"is_active"`
	CreatedBy string `gorm:"not null;column:created_by" json:"created_by"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Resource) TableName() string { return "resource" }

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *Resource) BeforeSave(tx *gorm.DB) error {
	r.SubjectKey = SubjectKey(r.Subject)
	return nil
}

// SubjectKey is the case-folded, trimmed form used for subject matching.
func SubjectKey(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

// IdentityValue returns the stored identity or "" when absent.
func (r *Resource) IdentityValue() string {
	if r == nil || r.Identity == nil {
		return ""
	}
	return *r.Identity
}
