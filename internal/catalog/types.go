package catalog

import (
	"strings"

	"github.com/yungbote/nexuslearn-backend/internal/domain/resources"
)

type QualificationType string

const (
	ALevel QualificationType = "alevel"
	SAT    QualificationType = "sat"
	OLevel QualificationType = "olevel"
	IGCSE  QualificationType = "igcse"
)

var qualificationTypes = []QualificationType{ALevel, SAT, OLevel, IGCSE}

func QualificationTypes() []QualificationType {
	return append([]QualificationType(nil), qualificationTypes...)
}

// ParseQualificationType accepts the canonical lowercase names, ignoring case and padding.
func ParseQualificationType(s string) (QualificationType, bool) {
	q := QualificationType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range qualificationTypes {
		if q == known {
			return q, true
		}
	}
	return "", false
}

type Section string

const (
	SectionBooks       Section = "books"
	SectionYearly      Section = "yearly"
	SectionTopical     Section = "topical"
	SectionSAResources Section = "sa_resources"
)

var sections = []Section{SectionBooks, SectionYearly, SectionTopical, SectionSAResources}

func Sections() []Section {
	return append([]Section(nil), sections...)
}

func ParseSection(s string) (Section, bool) {
	sec := Section(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range sections {
		if sec == known {
			return sec, true
		}
	}
	return "", false
}

type Origin string

const (
	OriginStatic    Origin = "static-catalog"
	OriginPersisted Origin = "persisted-record"
)

// Partition identifies one catalog slice.
type Partition struct {
	Type    QualificationType `json:"type"`
	Subject string            `json:"subject"`
	Section Section           `json:"section"`
	DataKey string            `json:"data_key,omitempty"`
}

// MatchesSubject reports whether partition subject matching applies. SAT
// partitions are keyed by DataKey alone.
func (p Partition) MatchesSubject() bool {
	return p.Type != SAT
}

// Admits applies the persisted-record partition rule: type exact, section
// exact or DataKey exact when the partition carries one, subject
// case-insensitive (skipped for SAT), active only.
func (p Partition) Admits(r *resources.Resource) bool {
	if r == nil || !r.IsActive {
		return false
	}
	if QualificationType(r.Type) != p.Type {
		return false
	}
	sectionMatch := Section(r.Section) == p.Section
	if !sectionMatch && p.DataKey != "" && r.DataKey == p.DataKey {
		sectionMatch = true
	}
	if !sectionMatch {
		return false
	}
	if p.MatchesSubject() && resources.SubjectKey(r.Subject) != resources.SubjectKey(p.Subject) {
		return false
	}
	return true
}
