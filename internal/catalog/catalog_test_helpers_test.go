package catalog

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/nexuslearn-backend/internal/domain/resources"
)

type fakeSource struct {
	mu    sync.Mutex
	recs  []*resources.Resource
	err   error
	calls int
	last  Query
}

func (f *fakeSource) FindActiveResources(ctx context.Context, q Query) ([]*resources.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*resources.Resource, 0, len(f.recs))
	for _, r := range f.recs {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func strPtr(s string) *string { return &s }

const csYAML = `
qualification: alevel
subject: Computer Science
sections:
  - id: cs-yearly
    title: Past Papers
    type: yearly
    entries:
      - name: November 2024 Paper 11
        id: november_2024_11
        qp: https://example.org/qp.pdf
        ms: https://example.org/ms.pdf
  - id: cs-books
    title: Books
    type: books
    entries:
      - name: Coursebook
        link1: https://example.org/book.pdf
`

func testStatic(t *testing.T) *StaticCatalog {
	t.Helper()
	c, err := LoadStatic(fstest.MapFS{
		"data/cs.yaml": {Data: []byte(csYAML)},
	}, "data/*.yaml")
	require.NoError(t, err)
	return c
}

var csYearly = Partition{Type: ALevel, Subject: "Computer Science", Section: SectionYearly}

func activeRecord(name string) *resources.Resource {
	return &resources.Resource{
		Type:     string(ALevel),
		Subject:  "Computer Science",
		Section:  string(SectionYearly),
		Name:     name,
		IsActive: true,
	}
}
