package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docmodel/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark with the GFM
// extensions. Heading attributes ({#id}) pin section references and a
// leading YAML or TOML front matter block fills the document header.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fm, src := readFrontMatter(src)

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(gmparser.WithAttribute()),
	)
	root := md.Parser().Parse(text.NewReader(src))

	doc := &doctree.Document{Title: baseTitle(filename)}
	if fm != nil {
		fm.apply(doc)
	}
	out := newOutline(doc)
	c := mdConverter{src: src}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			out.heading(h.Level, inlineTitle(c.inlines(h)), headingID(h))
			continue
		}
		out.add(c.block(n)...)
	}

	return doc, nil
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

type mdConverter struct {
	src []byte
}

// block converts one goldmark block. Some blocks expand to several nodes
// (tight list items) and some to none (thematic breaks, raw HTML).
func (c mdConverter) block(n ast.Node) []doctree.Node {
	switch n := n.(type) {
	case *ast.Heading:
		// Headings below the top level (inside quotes or lists) are plain
		// paragraphs; only top-level headings open sections.
		return []doctree.Node{doctree.NewParagraph(c.inlines(n)...)}
	case *ast.Paragraph:
		if img, ok := soleImage(n); ok {
			return []doctree.Node{c.figure(img)}
		}
		return []doctree.Node{doctree.NewParagraph(c.inlines(n)...)}
	case *ast.TextBlock:
		return c.inlines(n)
	case *ast.FencedCodeBlock:
		return []doctree.Node{&doctree.CodeBlock{
			Language: string(n.Language(c.src)),
			Children: textChildren(c.lines(n)),
		}}
	case *ast.CodeBlock:
		return []doctree.Node{&doctree.CodeBlock{Children: textChildren(c.lines(n))}}
	case *ast.Blockquote:
		return []doctree.Node{&doctree.BlockQuote{Children: c.blocks(n)}}
	case *ast.List:
		items := make([]*doctree.ListItem, 0, n.ChildCount())
		for li := n.FirstChild(); li != nil; li = li.NextSibling() {
			items = append(items, doctree.NewListItem(c.blocks(li)...))
		}
		if n.IsOrdered() {
			return []doctree.Node{&doctree.OrderedList{Items: items}}
		}
		return []doctree.Node{&doctree.UnorderedList{Items: items}}
	case *east.Table:
		return []doctree.Node{c.table(n)}
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return nil
	}

	// Anything else: keep whatever text it carries.
	if t := strings.TrimSpace(c.lines(n)); t != "" {
		return []doctree.Node{doctree.NewParagraph(doctree.NewText(t))}
	}
	return nil
}

func (c mdConverter) blocks(parent ast.Node) []doctree.Node {
	var out []doctree.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.block(n)...)
	}
	return out
}

func (c mdConverter) inlines(parent ast.Node) []doctree.Node {
	var out []doctree.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if in := c.inline(n); in != nil {
			out = append(out, in)
		}
	}
	return out
}

func (c mdConverter) inline(n ast.Node) doctree.Node {
	switch n := n.(type) {
	case *ast.Text:
		s := string(n.Value(c.src))
		switch {
		case n.HardLineBreak():
			s += "\n"
		case n.SoftLineBreak():
			s += " "
		}
		return doctree.NewText(s)
	case *ast.String:
		return doctree.NewText(string(n.Value))
	case *ast.Emphasis:
		if n.Level >= 2 {
			return &doctree.Bold{Children: c.inlines(n)}
		}
		return &doctree.Italic{Children: c.inlines(n)}
	case *east.Strikethrough:
		return &doctree.Strikethrough{Children: c.inlines(n)}
	case *ast.CodeSpan:
		return &doctree.Code{Children: c.inlines(n)}
	case *ast.Link:
		return linkNode(string(n.Destination), c.inlines(n))
	case *ast.AutoLink:
		url := string(n.URL(c.src))
		label := doctree.NewText(string(n.Label(c.src)))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			url = "mailto:" + url
		}
		return &doctree.WebLink{URI: url, Children: []doctree.Node{label}}
	case *ast.Image:
		return &doctree.Image{Source: string(n.Destination), Description: c.plain(n)}
	case *ast.RawHTML:
		return nil
	}
	if n.HasChildren() {
		return inlineTitle(c.inlines(n))
	}
	return nil
}

func (c mdConverter) figure(img *ast.Image) *doctree.Figure {
	alt := c.plain(img)
	f := &doctree.Figure{Image: &doctree.Image{Source: string(img.Destination), Description: alt}}
	if caption := c.inlines(img); len(caption) > 0 {
		f.Description = caption
	}
	if len(img.Title) > 0 {
		f.Image.SetMeta("title", string(img.Title))
	}
	return f
}

func (c mdConverter) table(t *east.Table) *doctree.Table {
	out := &doctree.Table{}
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []*doctree.Cell
		for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, &doctree.Cell{Children: c.inlines(cell)})
		}
		if _, ok := r.(*east.TableHeader); ok {
			out.Rows = append(out.Rows, &doctree.Row{Header: cells})
		} else {
			out.Rows = append(out.Rows, &doctree.Row{Cells: cells})
		}
	}
	return out
}

// plain returns the text content of an inline subtree.
func (c mdConverter) plain(n ast.Node) string {
	var buf bytes.Buffer
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch t := ch.(type) {
		case *ast.Text:
			buf.Write(t.Value(c.src))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(c.plain(ch))
		}
	}
	return buf.String()
}

// lines returns the raw source lines of a block.
func (c mdConverter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.src))
	}
	return buf.String()
}

// soleImage reports whether a paragraph consists of a single image.
func soleImage(p *ast.Paragraph) (*ast.Image, bool) {
	if p.ChildCount() != 1 {
		return nil, false
	}
	img, ok := p.FirstChild().(*ast.Image)
	return img, ok
}

func textChildren(s string) []doctree.Node {
	if s == "" {
		return nil
	}
	return []doctree.Node{doctree.NewText(s)}
}
