package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SectionFilters are the yearly filter choices offered for a section.
type SectionFilters struct {
	Sessions          []string `yaml:"sessions" json:"sessions"`
	PaperGroups       []string `yaml:"paperGroups" json:"paper_groups"`
	DefaultYear       string   `yaml:"defaultYear" json:"default_year,omitempty"`
	DefaultSession    string   `yaml:"defaultSession" json:"default_session,omitempty"`
	DefaultPaperGroup string   `yaml:"defaultPaperGroup" json:"default_paper_group,omitempty"`
}

type SectionInfo struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Partition Partition       `json:"partition"`
	GridCols  int             `json:"grid_cols,omitempty"`
	Filters   *SectionFilters `json:"filters,omitempty"`
}

type SubjectInfo struct {
	Type     QualificationType `json:"type"`
	Subject  string            `json:"subject"`
	Slug     string            `json:"slug"`
	Code     string            `json:"code,omitempty"`
	Sections []SectionInfo     `json:"sections"`
}

// StaticCatalog is the immutable, build-time resource index.
type StaticCatalog struct {
	entries  map[Partition][]Entry
	sections map[Partition]SectionInfo
	subjects map[QualificationType][]SubjectInfo
}

type subjectDoc struct {
	Qualification string       `yaml:"qualification"`
	Subject       string       `yaml:"subject"`
	Slug          string       `yaml:"slug"`
	Code          string       `yaml:"code"`
	Sections      []sectionDoc `yaml:"sections"`
}

type sectionDoc struct {
	ID       string          `yaml:"id"`
	Title    string          `yaml:"title"`
	Type     string          `yaml:"type"`
	DataKey  string          `yaml:"dataKey"`
	GridCols int             `yaml:"gridCols"`
	Filters  *SectionFilters `yaml:"filters"`
	Entries  []entryDoc      `yaml:"entries"`
}

type entryDoc struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Size      int    `yaml:"size"`
	Link1     string `yaml:"link1"`
	Link2     string `yaml:"link2"`
	QP        string `yaml:"qp"`
	MS        string `yaml:"ms"`
	SF        string `yaml:"sf"`
	Text1     string `yaml:"text1"`
	Text2     string `yaml:"text2"`
	Text3     string `yaml:"text3"`
	Session   string `yaml:"session"`
	Year      string `yaml:"year"`
	PaperCode string `yaml:"paperCode"`
}

// EmptyStatic returns a catalog with no bundled entries.
func EmptyStatic() *StaticCatalog {
	return &StaticCatalog{
		entries:  map[Partition][]Entry{},
		sections: map[Partition]SectionInfo{},
		subjects: map[QualificationType][]SubjectInfo{},
	}
}

// LoadStatic parses every file in fsys matching pattern (e.g. "data/*.yaml").
func LoadStatic(fsys fs.FS, pattern string) (*StaticCatalog, error) {
	files, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	sort.Strings(files)
	c := EmptyStatic()
	for _, f := range files {
		raw, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		var doc subjectDoc
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		if err := c.add(path.Base(f), doc); err != nil {
			return nil, err
		}
	}
	for q := range c.subjects {
		list := c.subjects[q]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Subject < list[j].Subject })
	}
	return c, nil
}

func (c *StaticCatalog) add(file string, doc subjectDoc) error {
	q, ok := ParseQualificationType(doc.Qualification)
	if !ok {
		return fmt.Errorf("%s: unknown qualification %q", file, doc.Qualification)
	}
	subject := strings.TrimSpace(doc.Subject)
	if subject == "" {
		return fmt.Errorf("%s: subject is required", file)
	}
	info := SubjectInfo{Type: q, Subject: subject, Slug: strings.TrimSpace(doc.Slug), Code: doc.Code}
	if info.Slug == "" {
		info.Slug = subject
	}
	for _, sd := range doc.Sections {
		sec, ok := ParseSection(sd.Type)
		if !ok {
			return fmt.Errorf("%s: section %q has unknown type %q", file, sd.ID, sd.Type)
		}
		p := Partition{Type: q, Subject: subject, Section: sec, DataKey: strings.TrimSpace(sd.DataKey)}
		if _, dup := c.sections[p.staticKey()]; dup {
			return fmt.Errorf("%s: section %q duplicates partition %+v", file, sd.ID, p)
		}
		seen := map[string]bool{}
		entries := make([]Entry, 0, len(sd.Entries))
		for i, ed := range sd.Entries {
			e, err := staticEntry(p, ed)
			if err != nil {
				return fmt.Errorf("%s: section %q entry %d: %w", file, sd.ID, i, err)
			}
			if id := e.DerivedIdentity(); id != "" {
				if seen[id] {
					return fmt.Errorf("%s: section %q: duplicate identity %q", file, sd.ID, id)
				}
				seen[id] = true
			}
			entries = append(entries, e)
		}
		si := SectionInfo{ID: sd.ID, Title: sd.Title, Partition: p, GridCols: sd.GridCols}
		if sec == SectionYearly {
			si.Filters = withFilterDefaults(sd.Filters)
		}
		c.entries[p.staticKey()] = entries
		c.sections[p.staticKey()] = si
		info.Sections = append(info.Sections, si)
	}
	c.subjects[q] = append(c.subjects[q], info)
	return nil
}

func staticEntry(p Partition, ed entryDoc) (Entry, error) {
	name := strings.TrimSpace(ed.Name)
	if name == "" {
		return Entry{}, fmt.Errorf("name is required")
	}
	first, second := ed.Link1, ed.Link2
	if p.Section == SectionYearly {
		first, second = firstNonEmpty(ed.QP, ed.Link1), firstNonEmpty(ed.MS, ed.Link2)
	} else {
		first, second = firstNonEmpty(ed.Link1, ed.QP), firstNonEmpty(ed.Link2, ed.MS)
	}
	size := ed.Size
	if size <= 0 {
		size = DefaultSizeHint
	}
	e := Entry{
		Identity:  strings.TrimSpace(ed.ID),
		Type:      p.Type,
		Subject:   p.Subject,
		Section:   p.Section,
		DataKey:   p.DataKey,
		Name:      name,
		SizeHint:  size,
		Session:   strings.TrimSpace(ed.Session),
		Year:      strings.TrimSpace(ed.Year),
		PaperCode: strings.TrimSpace(ed.PaperCode),
		Origin:    OriginStatic,
		Links: NewLinks(p.Section,
			Link{URL: first, Label: ed.Text1},
			Link{URL: second, Label: ed.Text2},
			Link{URL: ed.SF, Label: ed.Text3},
		),
	}
	if e.Identity == "" {
		e.Identity = DeriveIdentity(e.Session, e.Year, e.PaperCode)
	}
	return e, nil
}

func withFilterDefaults(f *SectionFilters) *SectionFilters {
	out := SectionFilters{}
	if f != nil {
		out = *f
	}
	if len(out.Sessions) == 0 {
		out.Sessions = []string{"June", "November"}
	}
	if len(out.PaperGroups) == 0 {
		out.PaperGroups = []string{"1", "2", "3", "4", "5"}
	}
	return &out
}

// Entries returns a copy of the bundled slice for p; empty when p has none.
func (c *StaticCatalog) Entries(p Partition) []Entry {
	if c == nil {
		return nil
	}
	src := c.entries[p.staticKey()]
	out := make([]Entry, len(src))
	for i := range src {
		out[i] = src[i].clone()
	}
	return out
}

func (c *StaticCatalog) Section(p Partition) (SectionInfo, bool) {
	if c == nil {
		return SectionInfo{}, false
	}
	si, ok := c.sections[p.staticKey()]
	return si, ok
}

func (c *StaticCatalog) Subjects(q QualificationType) []SubjectInfo {
	if c == nil {
		return nil
	}
	return append([]SubjectInfo(nil), c.subjects[q]...)
}

// Partitions lists every bundled partition in a stable order.
func (c *StaticCatalog) Partitions() []Partition {
	if c == nil {
		return nil
	}
	out := make([]Partition, 0, len(c.sections))
	for _, si := range c.sections {
		out = append(out, si.Partition)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		return a.DataKey < b.DataKey
	})
	return out
}

// staticKey drops the subject for partitions keyed by DataKey alone.
func (p Partition) staticKey() Partition {
	if !p.MatchesSubject() {
		p.Subject = ""
	}
	return p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
