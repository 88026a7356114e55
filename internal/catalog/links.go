package catalog

import "strings"

type LinkKind string

const (
	// LinkKindDocument is the books/topical shape: a primary link and an optional second one.
	LinkKindDocument LinkKind = "document"
	// LinkKindPaper is the yearly shape: question paper, mark scheme, optional source files.
	LinkKindPaper LinkKind = "paper"
)

const (
	LabelView          = "View"
	LabelQuestionPaper = "View Question Paper"
	LabelMarkScheme    = "View Mark Scheme"
	LabelSourceFiles   = "View Source Files"
)

type Link struct {
	URL   string `json:"url,omitempty"`
	Label string `json:"label,omitempty"`
}

func (l Link) Present() bool { return strings.TrimSpace(l.URL) != "" }

type DocumentLinks struct {
	Primary   Link `json:"primary"`
	Secondary Link `json:"secondary"`
}

type PaperLinks struct {
	QuestionPaper Link `json:"question_paper"`
	MarkScheme    Link `json:"mark_scheme"`
	SourceFiles   Link `json:"source_files,omitempty"`
}

// Links is a variant keyed by Kind; exactly one of Document or Paper is set.
type Links struct {
	Kind     LinkKind       `json:"kind"`
	Document *DocumentLinks `json:"document,omitempty"`
	Paper    *PaperLinks    `json:"paper,omitempty"`
}

func KindFor(section Section) LinkKind {
	if section == SectionYearly {
		return LinkKindPaper
	}
	return LinkKindDocument
}

// NewLinks places the positional slots into the variant for section and fills
// in the section's default labels where none were given.
func NewLinks(section Section, first, second, third Link) Links {
	first, second, third = trimLink(first), trimLink(second), trimLink(third)
	if KindFor(section) == LinkKindPaper {
		if first.Label == "" {
			first.Label = LabelQuestionPaper
		}
		if second.Label == "" {
			second.Label = LabelMarkScheme
		}
		if third.Label == "" && third.Present() {
			third.Label = LabelSourceFiles
		}
		return Links{Kind: LinkKindPaper, Paper: &PaperLinks{QuestionPaper: first, MarkScheme: second, SourceFiles: third}}
	}
	if first.Label == "" {
		first.Label = LabelView
	}
	return Links{Kind: LinkKindDocument, Document: &DocumentLinks{Primary: first, Secondary: second}}
}

// Slots flattens the variant back to its positional form.
func (l Links) Slots() (first, second, third Link) {
	switch l.Kind {
	case LinkKindPaper:
		if l.Paper != nil {
			return l.Paper.QuestionPaper, l.Paper.MarkScheme, l.Paper.SourceFiles
		}
	case LinkKindDocument:
		if l.Document != nil {
			return l.Document.Primary, l.Document.Secondary, Link{}
		}
	}
	return Link{}, Link{}, Link{}
}

func (l Links) clone() Links {
	out := Links{Kind: l.Kind}
	if l.Document != nil {
		d := *l.Document
		out.Document = &d
	}
	if l.Paper != nil {
		p := *l.Paper
		out.Paper = &p
	}
	return out
}

func trimLink(l Link) Link {
	return Link{URL: strings.TrimSpace(l.URL), Label: strings.TrimSpace(l.Label)}
}
