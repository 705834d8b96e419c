package parser

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/docmodel/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &doctree.Document{Title: baseTitle(filename)}
	readHead(doc, root)

	out := newOutline(doc)
	body := findElement(root, "body")
	if body == nil {
		body = root
	}
	sectionize(body, out)
	return doc, nil
}

// readHead fills the document properties from <html lang>, <title> (or
// og:title) and named <meta> tags.
func readHead(doc *doctree.Document, root *html.Node) {
	q := goquery.NewDocumentFromNode(root)

	if lang, ok := q.Find("html").Attr("lang"); ok {
		doc.Language = strings.TrimSpace(lang)
	}
	title := strings.Join(strings.Fields(q.Find("head title").First().Text()), " ")
	if title == "" {
		title = strings.TrimSpace(q.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	}
	if title != "" {
		doc.Title = title
	}

	q.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		switch strings.ToLower(s.AttrOr("name", "")) {
		case "author", "dc.creator":
			doc.Creator = content
		case "description", "dc.description":
			doc.Description = content
		case "keywords":
			for _, k := range strings.Split(content, ",") {
				if k = strings.TrimSpace(k); k != "" {
					doc.Keywords = append(doc.Keywords, k)
				}
			}
		case "publisher", "dc.publisher":
			doc.Publisher = content
		case "subject", "dc.subject":
			doc.Subject = content
		case "copyright", "dc.rights":
			doc.Rights = content
		case "version":
			doc.Version = content
		case "date", "dc.date", "dcterms.created":
			if t, ok := parseDate(content); ok {
				doc.CreatedOn = t
			}
		}
	})
}

// sectionize walks top-level body content. Headings open sections through
// the outline, layout containers are transparent, and loose inline content
// is gathered into paragraphs.
func sectionize(parent *html.Node, out *outline) {
	var pending []doctree.Node
	flush := func() {
		if p := paragraphOf(pending); p != nil {
			out.add(p)
		}
		pending = nil
	}

	for n := parent.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				flush()
				out.heading(level, inlineTitle(trimEdges(inlines(n))), attr(n, "id"))
				continue
			}
			switch {
			case skipped(n.Data):
				continue
			case container(n.Data):
				flush()
				sectionize(n, out)
				continue
			case blockTag(n.Data):
				flush()
				out.add(blockElement(n)...)
				continue
			}
		}
		pending = append(pending, inline(n)...)
	}
	flush()
}

// blocks converts the children of a block container. Headings nested here
// become paragraphs. When the container holds only inline content and
// loose is set, that content is returned unwrapped.
func blocks(parent *html.Node, loose bool) []doctree.Node {
	var out, pending []doctree.Node
	sawBlock := false
	flush := func() {
		if p := paragraphOf(pending); p != nil {
			out = append(out, p)
		}
		pending = nil
	}

	for n := parent.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			switch {
			case skipped(n.Data):
				continue
			case headingLevel(n.Data) > 0:
				flush()
				sawBlock = true
				out = append(out, doctree.NewParagraph(trimEdges(inlines(n))...))
				continue
			case container(n.Data):
				flush()
				sawBlock = true
				out = append(out, blocks(n, false)...)
				continue
			case blockTag(n.Data):
				flush()
				sawBlock = true
				out = append(out, blockElement(n)...)
				continue
			}
		}
		pending = append(pending, inline(n)...)
	}

	if loose && !sawBlock {
		return trimEdges(pending)
	}
	flush()
	return out
}

func blockElement(n *html.Node) []doctree.Node {
	switch n.Data {
	case "p":
		if p := paragraphOf(inlines(n)); p != nil {
			return []doctree.Node{p}
		}
		return nil
	case "pre":
		return []doctree.Node{&doctree.CodeBlock{
			Language: codeLanguage(n),
			Children: textChildren(rawText(n)),
		}}
	case "blockquote":
		return []doctree.Node{&doctree.BlockQuote{Children: blocks(n, false)}}
	case "ul", "ol":
		var items []*doctree.ListItem
		for li := n.FirstChild; li != nil; li = li.NextSibling {
			if li.Type == html.ElementNode && li.Data == "li" {
				items = append(items, doctree.NewListItem(blocks(li, true)...))
			}
		}
		if n.Data == "ol" {
			return []doctree.Node{&doctree.OrderedList{Items: items}}
		}
		return []doctree.Node{&doctree.UnorderedList{Items: items}}
	case "dl":
		return []doctree.Node{definitionList(n)}
	case "table":
		return []doctree.Node{table(n)}
	case "figure":
		return []doctree.Node{figure(n)}
	case "img":
		return []doctree.Node{&doctree.Figure{Image: image(n)}}
	case "hr":
		return nil
	}
	return nil
}

// definitionList pairs each <dd> with the <dt> run before it. Several
// consecutive terms are joined into one Content term, and every
// definition after the first gets its own copy of the term.
func definitionList(n *html.Node) *doctree.DefinitionList {
	dl := &doctree.DefinitionList{}
	var terms []doctree.Node
	var term doctree.Node
	used := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "dt":
			if used {
				terms, used = nil, false
			}
			if t := inlineTitle(trimEdges(inlines(c))); t != nil {
				terms = append(terms, t)
			}
			term = inlineTitle(terms)
		case "dd":
			t := term
			if used && t != nil {
				t = doctree.Clone(t)
			}
			used = true
			dl.Items = append(dl.Items, &doctree.Definition{
				Term:       t,
				Definition: inlineTitle(blocks(c, true)),
			})
		}
	}
	return dl
}

func table(n *html.Node) *doctree.Table {
	t := &doctree.Table{}
	var rows func(*html.Node, string)
	rows = func(parent *html.Node, group string) {
		for c := parent.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				rows(c, c.Data)
			case "tr":
				t.Rows = append(t.Rows, tableRow(c, group))
			}
		}
	}
	rows(n, "tbody")
	return t
}

func tableRow(tr *html.Node, group string) *doctree.Row {
	var cells []*doctree.Cell
	allHeader := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		if c.Data == "td" {
			allHeader = false
		}
		cells = append(cells, &doctree.Cell{Children: blocks(c, true)})
	}
	switch {
	case group == "thead" || (allHeader && len(cells) > 0):
		return &doctree.Row{Header: cells}
	case group == "tfoot":
		return &doctree.Row{Footer: cells}
	}
	return &doctree.Row{Cells: cells}
}

func figure(n *html.Node) *doctree.Figure {
	f := &doctree.Figure{}
	var visit func(*html.Node)
	visit = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "img":
				if f.Image == nil {
					f.Image = image(c)
				}
			case "figcaption":
				f.Description = blocks(c, true)
			default:
				visit(c.FirstChild)
			}
		}
	}
	visit(n.FirstChild)
	return f
}

func image(n *html.Node) *doctree.Image {
	img := &doctree.Image{Source: attr(n, "src"), Description: attr(n, "alt")}
	if t := attr(n, "title"); t != "" {
		img.SetMeta("title", t)
	}
	return img
}

func inlines(parent *html.Node) []doctree.Node {
	var out []doctree.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, inline(c)...)
	}
	return out
}

// inline converts one inline node. Unknown elements contribute their
// children directly.
func inline(n *html.Node) []doctree.Node {
	switch n.Type {
	case html.TextNode:
		s := collapseSpace(n.Data)
		if s == "" {
			return nil
		}
		return []doctree.Node{doctree.NewText(s)}
	case html.ElementNode:
	default:
		return nil
	}

	if skipped(n.Data) {
		return nil
	}
	children := inlines(n)
	var out doctree.Node
	switch n.Data {
	case "b", "strong":
		out = &doctree.Bold{Children: children}
	case "i", "em":
		out = &doctree.Italic{Children: children}
	case "u", "ins":
		out = &doctree.Underline{Children: children}
	case "s", "del", "strike":
		out = &doctree.Strikethrough{Children: children}
	case "code", "kbd", "samp":
		out = &doctree.Code{Children: children}
	case "sup":
		out = &doctree.Superscript{Children: children}
	case "sub":
		out = &doctree.Subscript{Children: children}
	case "q":
		out = &doctree.InlineQuote{Children: children}
	case "a":
		href := attr(n, "href")
		if href == "" {
			return children
		}
		out = linkNode(href, children)
	case "img":
		out = image(n)
	case "br":
		out = doctree.NewText("\n")
	default:
		return children
	}
	return []doctree.Node{out}
}

// paragraphOf wraps inline nodes in a paragraph, or returns nil when they
// hold no visible text.
func paragraphOf(nodes []doctree.Node) doctree.Node {
	nodes = trimEdges(nodes)
	if len(nodes) == 0 {
		return nil
	}
	return doctree.NewParagraph(nodes...)
}

// trimEdges trims leading whitespace from the first text node and trailing
// whitespace from the last, dropping them if they become empty.
func trimEdges(nodes []doctree.Node) []doctree.Node {
	if len(nodes) > 0 {
		if t, ok := nodes[0].(*doctree.Text); ok {
			t.Text = strings.TrimLeft(t.Text, " ")
			if t.Text == "" {
				nodes = nodes[1:]
			}
		}
	}
	if len(nodes) > 0 {
		if t, ok := nodes[len(nodes)-1].(*doctree.Text); ok {
			t.Text = strings.TrimRight(t.Text, " ")
			if t.Text == "" {
				nodes = nodes[:len(nodes)-1]
			}
		}
	}
	return nodes
}

// collapseSpace folds runs of HTML whitespace into a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

func codeLanguage(pre *html.Node) string {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "code" {
			continue
		}
		for _, class := range strings.Fields(attr(c, "class")) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func skipped(tag string) bool {
	switch tag {
	case "script", "style", "nav", "noscript", "template", "head":
		return true
	}
	return false
}

func container(tag string) bool {
	switch tag {
	case "div", "section", "article", "main", "header", "footer", "aside":
		return true
	}
	return false
}

func blockTag(tag string) bool {
	switch tag {
	case "p", "pre", "blockquote", "ul", "ol", "dl", "table", "figure", "img", "hr":
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// rawText returns the text under n with whitespace preserved.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// parseDate accepts the date layouts seen in meta tags and front matter.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
