package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/nexuslearn-backend/internal/domain/resources"
)

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestListResourcesEndToEnd(t *testing.T) {
	rec := activeRecord("June 2023 Paper 12")
	rec.Session, rec.Year, rec.PaperCode, rec.Order = "June", "2023", "12", 1
	src := &fakeSource{recs: []*resources.Resource{rec}}
	agg := NewAggregator(testStatic(t), src, nil)
	ctx := context.Background()

	all := agg.ListResources(ctx, csYearly, nil)
	require.Len(t, all, 2)
	assert.Equal(t, "june_2023_12", all[0].Identity)
	assert.Equal(t, OriginPersisted, all[0].Origin)
	assert.Equal(t, "november_2024_11", all[1].Identity)
	assert.Equal(t, OriginStatic, all[1].Origin)

	filtered := agg.ListResources(ctx, csYearly, &YearlyFilter{Year: "2024", Session: "november", PaperGroupPrefix: "1"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "november_2024_11", filtered[0].Identity)
	assert.Equal(t, OriginStatic, filtered[0].Origin)
}

func TestListResourcesPersistedFirstStableByOrder(t *testing.T) {
	a := activeRecord("a")
	a.Order = 2
	b := activeRecord("b")
	b.Order = 1
	c := activeRecord("c")
	c.Order = 2
	d := activeRecord("d")
	src := &fakeSource{recs: []*resources.Resource{a, b, c, d}}
	agg := NewAggregator(testStatic(t), src, nil)

	got := agg.ListResources(context.Background(), csYearly, nil)
	assert.Equal(t, []string{"d", "b", "a", "c", "November 2024 Paper 11"}, names(got))
}

func TestListResourcesPartitionRule(t *testing.T) {
	match := activeRecord("match")
	match.Subject = "  computer science "
	inactive := activeRecord("inactive")
	inactive.IsActive = false
	otherSubject := activeRecord("physics")
	otherSubject.Subject = "Physics"
	otherType := activeRecord("igcse")
	otherType.Type = string(IGCSE)
	otherSection := activeRecord("books")
	otherSection.Section = string(SectionBooks)

	src := &fakeSource{recs: []*resources.Resource{match, inactive, otherSubject, otherType, otherSection}}
	agg := NewAggregator(EmptyStatic(), src, nil)

	got := agg.ListResources(context.Background(), csYearly, nil)
	assert.Equal(t, []string{"match"}, names(got))
	assert.Equal(t, "Computer Science", src.last.Subject)
}

func TestListResourcesSATIgnoresSubject(t *testing.T) {
	rec := &resources.Resource{Type: string(SAT), Subject: "anything", Section: "english", DataKey: "english", Name: "vocab", IsActive: true}
	wrongKey := &resources.Resource{Type: string(SAT), Subject: "SAT", Section: "maths", DataKey: "maths", Name: "algebra", IsActive: true}
	src := &fakeSource{recs: []*resources.Resource{rec, wrongKey}}
	agg := NewAggregator(EmptyStatic(), src, nil)

	p := Partition{Type: SAT, Subject: "SAT", Section: SectionBooks, DataKey: "english"}
	got := agg.ListResources(context.Background(), p, nil)
	assert.Equal(t, []string{"vocab"}, names(got))
	assert.Empty(t, src.last.Subject)
	assert.Equal(t, "english", src.last.DataKeyAlternative)
}

func TestListResourcesFilterFailOpen(t *testing.T) {
	bad := activeRecord("malformed")
	bad.Identity = strPtr("not-an-identity")
	none := activeRecord("no identity")
	src := &fakeSource{recs: []*resources.Resource{bad, none}}
	agg := NewAggregator(testStatic(t), src, nil)
	ctx := context.Background()

	unfiltered := agg.ListResources(ctx, csYearly, nil)
	assert.Contains(t, names(unfiltered), "malformed")
	assert.Contains(t, names(unfiltered), "no identity")

	filtered := agg.ListResources(ctx, csYearly, &YearlyFilter{Year: "1999", Session: "june", PaperGroupPrefix: "9"})
	assert.Equal(t, []string{"malformed", "no identity"}, names(filtered))
}

func TestYearlyFilterCorrectness(t *testing.T) {
	f := YearlyFilter{Year: "2024", Session: "november", PaperGroupPrefix: "1"}
	cases := []struct {
		id   string
		keep bool
	}{
		{"november_2024_11", true},
		{"November_2024_12", true},
		{"november_2024_21", false},
		{"june_2024_11", false},
		{"november_2023_11", false},
		{"november__11", false},
		{"november_2024_", false},
		{"november_2024_11_extra", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.keep, f.Keep(Entry{Identity: tc.id}), tc.id)
	}
}

func TestListResourcesEvaluatesIdentityWithEmptyPart(t *testing.T) {
	gap := activeRecord("bad")
	gap.Identity = strPtr("november__11")
	agg := NewAggregator(testStatic(t), &fakeSource{recs: []*resources.Resource{gap}}, nil)

	filtered := agg.ListResources(context.Background(), csYearly, &YearlyFilter{Year: "2024", Session: "november", PaperGroupPrefix: "1"})
	assert.NotContains(t, names(filtered), "bad")
}

func TestFilterIgnoredOutsideYearly(t *testing.T) {
	agg := NewAggregator(testStatic(t), nil, nil)
	p := Partition{Type: ALevel, Subject: "Computer Science", Section: SectionBooks}
	got := agg.ListResources(context.Background(), p, &YearlyFilter{Year: "1999", Session: "june", PaperGroupPrefix: "9"})
	assert.Equal(t, []string{"Coursebook"}, names(got))
}

func TestListResourcesIdempotentAndFresh(t *testing.T) {
	rec := activeRecord("persisted")
	rec.PrimaryURL = "https://example.org/p.pdf"
	src := &fakeSource{recs: []*resources.Resource{rec}}
	agg := NewAggregator(testStatic(t), src, nil)
	ctx := context.Background()

	first := agg.ListResources(ctx, csYearly, nil)
	second := agg.ListResources(ctx, csYearly, nil)
	require.Equal(t, first, second)

	first[0].Name = "mutated"
	first[1].Links.Paper.QuestionPaper.URL = "mutated"
	third := agg.ListResources(ctx, csYearly, nil)
	assert.Equal(t, second, third)
}

func TestListResourcesDegradesOnSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	agg := NewAggregator(testStatic(t), src, nil)

	got := agg.ListResources(context.Background(), csYearly, nil)
	assert.Equal(t, []string{"November 2024 Paper 11"}, names(got))
	assert.Equal(t, 1, src.Calls())
}

func TestPersistedLinkLabels(t *testing.T) {
	yearly := activeRecord("paper")
	yearly.PrimaryURL, yearly.SecondaryURL = "https://example.org/qp", "https://example.org/ms"
	book := activeRecord("book")
	book.Section = string(SectionBooks)
	book.PrimaryURL = "https://example.org/book"
	src := &fakeSource{recs: []*resources.Resource{yearly, book}}
	agg := NewAggregator(EmptyStatic(), src, nil)
	ctx := context.Background()

	y := agg.ListResources(ctx, csYearly, nil)
	require.Len(t, y, 1)
	require.NotNil(t, y[0].Links.Paper)
	assert.Equal(t, LabelQuestionPaper, y[0].Links.Paper.QuestionPaper.Label)
	assert.Equal(t, LabelMarkScheme, y[0].Links.Paper.MarkScheme.Label)
	assert.False(t, y[0].Links.Paper.SourceFiles.Present())

	b := agg.ListResources(ctx, Partition{Type: ALevel, Subject: "Computer Science", Section: SectionBooks}, nil)
	require.Len(t, b, 1)
	require.NotNil(t, b[0].Links.Document)
	assert.Equal(t, LabelView, b[0].Links.Document.Primary.Label)
	assert.Equal(t, "", b[0].Links.Document.Secondary.Label)
	assert.Equal(t, DefaultSizeHint, b[0].SizeHint)
}

func TestAvailableYears(t *testing.T) {
	var recs []*resources.Resource
	for _, y := range []string{"2021", "2024", "2019", "2021"} {
		r := activeRecord("r" + y)
		r.Year = y
		recs = append(recs, r)
	}
	src := &fakeSource{recs: recs}
	agg := NewAggregator(EmptyStatic(), src, nil)
	assert.Equal(t, []string{"2024", "2021", "2019"}, agg.AvailableYears(context.Background(), csYearly))
}

func TestAvailableYearsNumericOrderAcrossSources(t *testing.T) {
	r := activeRecord("old")
	r.Identity = strPtr("june_304_11")
	odd := activeRecord("odd")
	odd.Year = "n/a"
	agg := NewAggregator(testStatic(t), &fakeSource{recs: []*resources.Resource{r, odd}}, nil)
	assert.Equal(t, []string{"2024", "304", "n/a"}, agg.AvailableYears(context.Background(), csYearly))
}

func TestFilterOptionsDefaults(t *testing.T) {
	agg := NewAggregator(testStatic(t), nil, nil)
	opts := agg.FilterOptions(context.Background(), csYearly)
	assert.Equal(t, []string{"2024"}, opts.Years)
	assert.Equal(t, []string{"June", "November"}, opts.Sessions)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, opts.PaperGroups)
	assert.Equal(t, YearlyFilter{Year: "2024", Session: "november", PaperGroupPrefix: "1"}, opts.Defaults)
}
