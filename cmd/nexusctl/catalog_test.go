package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yungbote/nexuslearn-backend/internal/catalog"
)

func TestRenderEntries(t *testing.T) {
	entries := []catalog.Entry{{
		Identity: "june_2023_12",
		Name:     "June 2023 Paper 12",
		Origin:   catalog.OriginPersisted,
		Links: catalog.NewLinks(catalog.SectionYearly,
			catalog.Link{URL: "https://example.org/qp"},
			catalog.Link{URL: "https://example.org/ms"},
			catalog.Link{}),
	}}
	var buf bytes.Buffer
	renderEntries(&buf, entries)
	out := buf.String()
	for _, want := range []string{"june_2023_12", "June 2023 Paper 12", "persisted-record", "Question", "Scheme"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCatalogYearsCommandUsesBundledCatalog(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"catalog", "years", "--type", "alevel", "--subject", "Computer Science", "--section", "yearly"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(buf.String(), "2024") {
		t.Fatalf("years output missing 2024:\n%s", buf.String())
	}
}
