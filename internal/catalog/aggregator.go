package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/yungbote/nexuslearn-backend/internal/domain/resources"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

// Query is the persisted-record read for one partition. Empty fields are not
// filtered on. DataKeyAlternative widens the section match to records whose
// DataKey equals it.
type Query struct {
	Type               QualificationType
	Subject            string
	Section            Section
	DataKeyAlternative string
}

// RecordSource reads active admin-created records.
type RecordSource interface {
	FindActiveResources(ctx context.Context, q Query) ([]*resources.Resource, error)
}

// QueryFor builds the source query for p.
func QueryFor(p Partition) Query {
	q := Query{Type: p.Type, Section: p.Section, DataKeyAlternative: p.DataKey}
	if p.MatchesSubject() {
		q.Subject = p.Subject
	}
	return q
}

type Aggregator struct {
	static *StaticCatalog
	source RecordSource
	log    *logger.Logger
}

// NewAggregator merges static with records from source. A nil source yields
// static entries only.
func NewAggregator(static *StaticCatalog, source RecordSource, baseLog *logger.Logger) *Aggregator {
	if static == nil {
		static = EmptyStatic()
	}
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Aggregator{static: static, source: source, log: baseLog.With("component", "CatalogAggregator")}
}

func (a *Aggregator) Static() *StaticCatalog { return a.static }

// ListResources returns persisted entries (ordered by Order) followed by the
// static entries for p. f is applied only to yearly partitions.
func (a *Aggregator) ListResources(ctx context.Context, p Partition, f *YearlyFilter) []Entry {
	out := a.merged(ctx, p)
	if p.Section == SectionYearly && f != nil {
		out = applyFilter(out, *f)
	}
	return out
}

// AvailableYears lists distinct years in p, newest first. Non-numeric years
// sort after numeric ones.
func (a *Aggregator) AvailableYears(ctx context.Context, p Partition) []string {
	return distinctYears(a.merged(ctx, p))
}

type FilterOptions struct {
	Years       []string     `json:"years"`
	Sessions    []string     `json:"sessions"`
	PaperGroups []string     `json:"paper_groups"`
	Defaults    YearlyFilter `json:"defaults"`
}

// FilterOptions describes the yearly filter choices for p.
func (a *Aggregator) FilterOptions(ctx context.Context, p Partition) FilterOptions {
	years := a.AvailableYears(ctx, p)
	cfg := withFilterDefaults(nil)
	if si, ok := a.static.Section(p); ok && si.Filters != nil {
		cfg = si.Filters
	}
	opts := FilterOptions{
		Years:       years,
		Sessions:    append([]string(nil), cfg.Sessions...),
		PaperGroups: append([]string(nil), cfg.PaperGroups...),
		Defaults: YearlyFilter{
			Year:             cfg.DefaultYear,
			Session:          cfg.DefaultSession,
			PaperGroupPrefix: cfg.DefaultPaperGroup,
		},
	}
	if opts.Defaults.Year == "" && len(years) > 0 {
		opts.Defaults.Year = years[0]
	}
	if opts.Defaults.Session == "" && len(opts.Sessions) > 0 {
		opts.Defaults.Session = strings.ToLower(opts.Sessions[len(opts.Sessions)-1])
	}
	if opts.Defaults.PaperGroupPrefix == "" && len(opts.PaperGroups) > 0 {
		opts.Defaults.PaperGroupPrefix = opts.PaperGroups[0]
	}
	return opts
}

func (a *Aggregator) merged(ctx context.Context, p Partition) []Entry {
	persisted := a.persisted(ctx, p)
	static := a.static.Entries(p)
	out := make([]Entry, 0, len(persisted)+len(static))
	out = append(out, persisted...)
	out = append(out, static...)
	return out
}

func (a *Aggregator) persisted(ctx context.Context, p Partition) []Entry {
	if a.source == nil {
		return nil
	}
	recs, err := a.source.FindActiveResources(ctx, QueryFor(p))
	if err != nil {
		a.log.Warn("persisted records unavailable; serving static catalog only",
			"type", p.Type, "subject", p.Subject, "section", p.Section, "data_key", p.DataKey, "error", err)
		return nil
	}
	out := make([]Entry, 0, len(recs))
	for _, r := range recs {
		if !p.Admits(r) {
			continue
		}
		out = append(out, FromRecord(r))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func distinctYears(entries []Entry) []string {
	seen := map[string]bool{}
	years := make([]string, 0)
	for _, e := range entries {
		y := e.YearValue()
		if y == "" || seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	sort.SliceStable(years, func(i, j int) bool {
		a, aerr := strconv.Atoi(years[i])
		b, berr := strconv.Atoi(years[j])
		switch {
		case aerr == nil && berr == nil:
			return a > b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return years[i] > years[j]
		}
	})
	return years
}
