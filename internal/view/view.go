// Package view renders parts of a document model as plain JSON-friendly
// values for the HTTP API, the index and the command line.
package view

import (
	"strings"

	"github.com/dgallion1/docmodel/internal/doctree"
)

// TOCEntry is one line of a table of contents.
type TOCEntry struct {
	Title     string     `json:"title"`
	Reference string     `json:"reference"`
	Children  []TOCEntry `json:"children,omitempty"`
}

// TOC converts the ordered list built by doctree.BuildTOC.
func TOC(list *doctree.OrderedList) []TOCEntry {
	if list == nil {
		return nil
	}
	out := make([]TOCEntry, 0, len(list.Items))
	for _, item := range list.Items {
		var e TOCEntry
		for _, n := range item.Children {
			switch n := n.(type) {
			case *doctree.InternalLink:
				e.Title = strings.TrimSpace(doctree.CollectText(n))
				e.Reference = n.SectionReference
			case *doctree.OrderedList:
				e.Children = TOC(n)
			}
		}
		out = append(out, e)
	}
	return out
}

// Figure describes one figure.
type Figure struct {
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
	Caption     string `json:"caption,omitempty"`
}

func Figures(figs []*doctree.Figure) []Figure {
	out := make([]Figure, 0, len(figs))
	for _, f := range figs {
		v := Figure{Caption: strings.TrimSpace(textOf(f.Description))}
		if f.Image != nil {
			v.Source = f.Image.Source
			v.Description = f.Image.Description
		}
		out = append(out, v)
	}
	return out
}

// Table summarises one table: its size and header cells.
type Table struct {
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Header  []string `json:"header,omitempty"`
}

func Tables(tables []*doctree.Table) []Table {
	out := make([]Table, 0, len(tables))
	for _, t := range tables {
		v := Table{Rows: len(t.Rows)}
		for _, r := range t.Rows {
			if r == nil {
				continue
			}
			if n := len(r.Header) + len(r.Cells) + len(r.Footer); n > v.Columns {
				v.Columns = n
			}
			if v.Header == nil && len(r.Header) > 0 {
				for _, c := range r.Header {
					if c == nil {
						continue
					}
					v.Header = append(v.Header, strings.TrimSpace(doctree.CollectText(c)))
				}
			}
		}
		out = append(out, v)
	}
	return out
}

// Link is one web link and its visible text.
type Link struct {
	URI  string `json:"uri"`
	Text string `json:"text,omitempty"`
}

func Links(links []*doctree.WebLink) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		out = append(out, Link{URI: l.URI, Text: strings.TrimSpace(doctree.CollectText(l))})
	}
	return out
}

// Summary counts the structural parts of a document.
type Summary struct {
	Title    string `json:"title"`
	Sections int    `json:"sections"`
	Figures  int    `json:"figures"`
	Tables   int    `json:"tables"`
	WebLinks int    `json:"web_links"`
	Words    int    `json:"words"`
}

func Summarize(doc *doctree.Document) Summary {
	return Summary{
		Title:    doc.Title,
		Sections: len(doctree.Sections(doc)),
		Figures:  len(doctree.Figures(doc)),
		Tables:   len(doctree.Tables(doc)),
		WebLinks: len(doctree.WebLinks(doc)),
		Words:    countWords(doc),
	}
}

func countWords(doc *doctree.Document) int {
	n := 0
	doctree.Walk(doc, func(e doctree.Element, _ int) {
		if t, ok := e.(*doctree.Text); ok {
			n += len(strings.Fields(t.Text))
		}
	})
	return n
}

// Text returns the document text with paragraph breaks between blocks,
// unlike doctree.CollectText which joins fragments directly.
func Text(doc *doctree.Document) string {
	var sb strings.Builder
	for _, n := range doc.Children {
		writeChild(&sb, n)
	}
	return sb.String()
}

func writeChild(sb *strings.Builder, n doctree.Node) {
	switch n := n.(type) {
	case *doctree.Section:
		if n.Title != nil {
			writeBlock(sb, doctree.CollectText(n.Title))
		}
		for _, c := range n.Children {
			writeChild(sb, c)
		}
	case *doctree.Content:
		for _, c := range n.Children {
			writeChild(sb, c)
		}
	case doctree.List:
		for _, e := range n.Entries() {
			writeBlock(sb, doctree.CollectText(e))
		}
	case *doctree.Table:
		for _, r := range n.Rows {
			if r == nil {
				continue
			}
			var cells []string
			for _, group := range [][]*doctree.Cell{r.Header, r.Cells, r.Footer} {
				for _, c := range group {
					if c != nil {
						cells = append(cells, strings.TrimSpace(doctree.CollectText(c)))
					}
				}
			}
			writeBlock(sb, strings.Join(cells, " | "))
		}
	case nil:
	default:
		writeBlock(sb, doctree.CollectText(n))
	}
}

func writeBlock(sb *strings.Builder, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if sb.Len() > 0 {
		sb.WriteString("\n\n")
	}
	sb.WriteString(s)
}

func textOf(nodes []doctree.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(doctree.CollectText(n))
	}
	return sb.String()
}
