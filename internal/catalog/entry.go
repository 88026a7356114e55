package catalog

import (
	"strings"

	"github.com/yungbote/nexuslearn-backend/internal/domain/resources"
)

const DefaultSizeHint = 3

// Entry is one viewable study item as returned to clients.
type Entry struct {
	Identity  string            `json:"id,omitempty"`
	Type      QualificationType `json:"type"`
	Subject   string            `json:"subject"`
	Section   Section           `json:"section"`
	DataKey   string            `json:"data_key,omitempty"`
	Name      string            `json:"name"`
	Links     Links             `json:"links"`
	SizeHint  int               `json:"size"`
	Session   string            `json:"session,omitempty"`
	Year      string            `json:"year,omitempty"`
	PaperCode string            `json:"paper_code,omitempty"`
	Order     int               `json:"order"`
	Origin    Origin            `json:"origin"`
}

// DerivedIdentity returns the stored identity, or one built from
// session/year/paperCode when none is stored.
func (e Entry) DerivedIdentity() string {
	if id := strings.TrimSpace(e.Identity); id != "" {
		return id
	}
	return DeriveIdentity(e.Session, e.Year, e.PaperCode)
}

// PaperKey resolves the entry's filter attributes. A stored identity that does
// not parse falls back to the explicit fields; ok is false when neither works.
func (e Entry) PaperKey() (PaperKey, bool) {
	if k, ok := ParseIdentity(e.DerivedIdentity()); ok {
		return k, true
	}
	return ParseIdentity(DeriveIdentity(e.Session, e.Year, e.PaperCode))
}

// YearValue is the explicit year, else the year component of the identity.
func (e Entry) YearValue() string {
	if y := strings.TrimSpace(e.Year); y != "" {
		return y
	}
	if k, ok := ParseIdentity(e.DerivedIdentity()); ok {
		return k.Year
	}
	return ""
}

func (e Entry) clone() Entry {
	out := e
	out.Links = e.Links.clone()
	return out
}

// FromRecord converts a persisted record into an entry for its section.
func FromRecord(r *resources.Resource) Entry {
	section := Section(r.Section)
	size := r.SizeHint
	if size <= 0 {
		size = DefaultSizeHint
	}
	e := Entry{
		Identity:  r.IdentityValue(),
		Type:      QualificationType(r.Type),
		Subject:   r.Subject,
		Section:   section,
		DataKey:   r.DataKey,
		Name:      r.Name,
		SizeHint:  size,
		Session:   r.Session,
		Year:      r.Year,
		PaperCode: r.PaperCode,
		Order:     r.Order,
		Origin:    OriginPersisted,
		Links: NewLinks(section,
			Link{URL: r.PrimaryURL, Label: r.PrimaryLabel},
			Link{URL: r.SecondaryURL, Label: r.SecondaryLabel},
			Link{URL: r.ExtraURL, Label: r.ExtraLabel},
		),
	}
	if e.Identity == "" {
		e.Identity = DeriveIdentity(r.Session, r.Year, r.PaperCode)
	}
	return e
}
