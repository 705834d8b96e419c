package doctree

// Shorthand constructors for the common cases. Everything else is built with
// struct literals.

func NewText(s string) *Text { return &Text{Text: s} }

func NewContent(children ...Node) *Content { return &Content{Children: children} }

func NewParagraph(children ...Node) *Paragraph { return &Paragraph{Children: children} }

// NewSection returns a section titled with a single text node.
func NewSection(title string, children ...Node) *Section {
	return &Section{Title: NewText(title), Children: children}
}

func NewListItem(children ...Node) *ListItem { return &ListItem{Children: children} }

// NewCell returns a cell holding a single text node, or no children when s
// is empty.
func NewCell(s string) *Cell {
	if s == "" {
		return &Cell{}
	}
	return &Cell{Children: []Node{NewText(s)}}
}

// NewFigure returns a figure whose caption is a single text node.
func NewFigure(source, caption string) *Figure {
	f := &Figure{Image: &Image{Source: source, Description: caption}}
	if caption != "" {
		f.Description = []Node{NewText(caption)}
	}
	return f
}
