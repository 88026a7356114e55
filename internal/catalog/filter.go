package catalog

import (
	"strings"
)

// YearlyFilter narrows a yearly-paper partition to one sitting and paper group.
type YearlyFilter struct {
	Year             string `json:"year"`
	Session          string `json:"session"`
	PaperGroupPrefix string `json:"paper_group"`
}

// Keep reports whether e survives the filter. Entries without a parsable
// identity are always kept.
func (f YearlyFilter) Keep(e Entry) bool {
	k, ok := e.PaperKey()
	if !ok {
		return true
	}
	return strings.EqualFold(k.Session, strings.TrimSpace(f.Session)) &&
		k.Year == strings.TrimSpace(f.Year) &&
		strings.HasPrefix(k.Code, strings.TrimSpace(f.PaperGroupPrefix))
}

func applyFilter(entries []Entry, f YearlyFilter) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Keep(e) {
			out = append(out, e)
		}
	}
	return out
}
