package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledCatalogLoads(t *testing.T) {
	c, err := Bundled()
	require.NoError(t, err)

	cs := c.Entries(Partition{Type: ALevel, Subject: "Computer Science", Section: SectionYearly})
	require.NotEmpty(t, cs)
	for _, e := range cs {
		assert.Equal(t, OriginStatic, e.Origin)
		assert.Equal(t, LinkKindPaper, e.Links.Kind)
	}

	sat := c.Entries(Partition{Type: SAT, Subject: "whatever", Section: SectionBooks, DataKey: "english"})
	assert.NotEmpty(t, sat)

	subjects := c.Subjects(ALevel)
	require.NotEmpty(t, subjects)
	for i := 1; i < len(subjects); i++ {
		assert.LessOrEqual(t, subjects[i-1].Subject, subjects[i].Subject)
	}
}

func TestLoadStaticDerivesIdentityAndLabels(t *testing.T) {
	doc := `
qualification: alevel
subject: Computer Science
sections:
  - id: y
    type: yearly
    entries:
      - name: derived
        session: November
        year: "2024"
        paperCode: "41"
        qp: https://example.org/qp
        ms: https://example.org/ms
        sf: https://example.org/sf.zip
`
	c, err := LoadStatic(fstest.MapFS{"a.yaml": {Data: []byte(doc)}}, "*.yaml")
	require.NoError(t, err)

	got := c.Entries(csYearly)
	require.Len(t, got, 1)
	assert.Equal(t, "november_2024_41", got[0].Identity)
	assert.Equal(t, DefaultSizeHint, got[0].SizeHint)
	assert.Equal(t, LabelSourceFiles, got[0].Links.Paper.SourceFiles.Label)

	si, ok := c.Section(csYearly)
	require.True(t, ok)
	require.NotNil(t, si.Filters)
	assert.Equal(t, []string{"June", "November"}, si.Filters.Sessions)
}

func TestLoadStaticRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"duplicate identity": `
qualification: alevel
subject: CS
sections:
  - id: y
    type: yearly
    entries:
      - {name: a, id: june_2024_11}
      - {name: b, session: June, year: "2024", paperCode: "11"}
`,
		"unknown qualification": `
qualification: gcse
subject: CS
`,
		"unknown section": `
qualification: alevel
subject: CS
sections:
  - {id: x, type: notes}
`,
		"missing name": `
qualification: alevel
subject: CS
sections:
  - id: b
    type: books
    entries:
      - {link1: https://example.org}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadStatic(fstest.MapFS{"a.yaml": {Data: []byte(doc)}}, "*.yaml")
			assert.Error(t, err)
		})
	}
}

func TestStaticEntriesAreCopies(t *testing.T) {
	c := testStatic(t)
	a := c.Entries(csYearly)
	a[0].Name = "changed"
	a[0].Links.Paper.MarkScheme.URL = "changed"
	b := c.Entries(csYearly)
	assert.Equal(t, "November 2024 Paper 11", b[0].Name)
	assert.Equal(t, "https://example.org/ms.pdf", b[0].Links.Paper.MarkScheme.URL)
}

func TestStaticMissingPartitionIsEmpty(t *testing.T) {
	c := testStatic(t)
	assert.Empty(t, c.Entries(Partition{Type: OLevel, Subject: "History", Section: SectionBooks}))
}
