package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docmodel/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx needs a ReaderAt and the size up front.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	f, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &doctree.Document{Title: baseTitle(filename)}
	out := newOutline(doc)
	c := docxConverter{file: f}

	for _, item := range f.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			runs := c.paragraph(it)
			if len(runs) == 0 {
				continue
			}
			if level := docxHeadingLevel(it); level > 0 {
				out.heading(level, inlineTitle(runs), "")
				continue
			}
			out.add(doctree.NewParagraph(runs...))
		case *docx.Table:
			out.add(c.table(it))
		}
	}

	return doc, nil
}

type docxConverter struct {
	file *docx.Docx
}

func (c docxConverter) paragraph(para *docx.Paragraph) []doctree.Node {
	var out []doctree.Node
	for _, child := range para.Children {
		switch ch := child.(type) {
		case *docx.Run:
			if n := runNode(ch); n != nil {
				out = append(out, n)
			}
		case *docx.Hyperlink:
			label := runNode(&ch.Run)
			if label == nil {
				continue
			}
			out = append(out, linkNode(c.linkTarget(ch.ID), []doctree.Node{label}))
		}
	}
	return out
}

// linkTarget resolves a hyperlink id through the relationships part. Ids
// that are not relationships are bookmark anchors within the document.
func (c docxConverter) linkTarget(id string) string {
	if target, err := c.file.ReferTarget(id); err == nil {
		return target
	}
	return "#" + id
}

func (c docxConverter) table(t *docx.Table) *doctree.Table {
	out := &doctree.Table{}
	for i, tr := range t.TableRows {
		cells := make([]*doctree.Cell, 0, len(tr.TableCells))
		for _, tc := range tr.TableCells {
			cell := &doctree.Cell{}
			for _, para := range tc.Paragraphs {
				if runs := c.paragraph(para); len(runs) > 0 {
					cell.Children = append(cell.Children, doctree.NewParagraph(runs...))
				}
			}
			cells = append(cells, cell)
		}
		// Word marks repeating header rows in trPr, which go-docx does not
		// decode; the first row of a multi-row table is taken as the header.
		if i == 0 && len(t.TableRows) > 1 {
			out.Rows = append(out.Rows, &doctree.Row{Header: cells})
		} else {
			out.Rows = append(out.Rows, &doctree.Row{Cells: cells})
		}
	}
	return out
}

// runNode converts a run's text and wraps it in the markup its properties
// ask for, outermost first: bold, italic, underline, strike, vertical align.
func runNode(run *docx.Run) doctree.Node {
	var buf strings.Builder
	for _, rc := range run.Children {
		switch t := rc.(type) {
		case *docx.Text:
			buf.WriteString(t.Text)
		case *docx.Tab:
			buf.WriteByte('\t')
		case *docx.BarterRabbet:
			buf.WriteByte('\n')
		}
	}
	if buf.Len() == 0 {
		return nil
	}

	var n doctree.Node = doctree.NewText(buf.String())
	props := run.RunProperties
	if props == nil {
		return n
	}
	if props.VertAlign != nil {
		switch props.VertAlign.Val {
		case "superscript":
			n = &doctree.Superscript{Children: []doctree.Node{n}}
		case "subscript":
			n = &doctree.Subscript{Children: []doctree.Node{n}}
		}
	}
	if props.Strike != nil && props.Strike.Val != "false" && props.Strike.Val != "0" {
		n = &doctree.Strikethrough{Children: []doctree.Node{n}}
	}
	if props.Underline != nil && props.Underline.Val != "none" {
		n = &doctree.Underline{Children: []doctree.Node{n}}
	}
	if props.Italic != nil {
		n = &doctree.Italic{Children: []doctree.Node{n}}
	}
	if props.Bold != nil {
		n = &doctree.Bold{Children: []doctree.Node{n}}
	}
	return n
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	switch style {
	case "title":
		return 1
	case "heading1":
		return 1
	case "heading2":
		return 2
	case "heading3":
		return 3
	case "heading4":
		return 4
	case "heading5":
		return 5
	case "heading6":
		return 6
	}
	return 0
}
