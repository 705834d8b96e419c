// Package doctree is an in-memory document object model: a typed tree of
// document elements sitting between format readers and their consumers.
//
// The set of variants is closed. Every variant reports its Kind, and every
// Kind has a fixed Shape that tells the walker how to descend into it.
// Consumers type-switch on concrete variants; adding a variant means adding a
// Kind, a Shape entry and a case in each consumer.
//
// A tree is owned by a single writer at a time. Nothing in this package
// locks, and nothing checks that the input really is a tree.
package doctree

// Metadata is an opaque key/value bag carried by every node. The package
// never reads it.
type Metadata map[string]any

// Element is anything the walker can visit: every Node, plus *Document.
type Element interface {
	Kind() Kind
}

// Node is a single element of the document tree.
type Node interface {
	Element
	Meta() Metadata
	node()
}

// Branch is implemented by every variant that owns a children sequence.
type Branch interface {
	Node
	Nodes() []Node
	Append(children ...Node)
}

// base carries the metadata shared by all variants. Only types in this
// package can embed it, which keeps the variant set closed; Metadata, Meta
// and SetMeta are promoted.
type base struct {
	Metadata Metadata
}

func (b *base) Meta() Metadata { return b.Metadata }

// SetMeta stores a metadata value, allocating the map on first use.
func (b *base) SetMeta(key string, value any) {
	if b.Metadata == nil {
		b.Metadata = make(Metadata)
	}
	b.Metadata[key] = value
}

func (*base) node() {}

// Text is a run of plain text.
type Text struct {
	base
	Text string
}

func (*Text) Kind() Kind { return KindText }

// Content is the generic container. It carries no meaning of its own and is
// transparent to the table-of-contents builder.
type Content struct {
	base
	Children []Node
}

func (*Content) Kind() Kind                { return KindContent }
func (n *Content) Nodes() []Node           { return n.Children }
func (n *Content) Append(children ...Node) { n.Children = append(n.Children, children...) }

type Paragraph struct {
	base
	Children []Node
}

func (*Paragraph) Kind() Kind                { return KindParagraph }
func (n *Paragraph) Nodes() []Node           { return n.Children }
func (n *Paragraph) Append(children ...Node) { n.Children = append(n.Children, children...) }

type Bold struct {
	base
	Children []Node
}

func (*Bold) Kind() Kind                { return KindBold }
func (n *Bold) Nodes() []Node           { return n.Children }
func (n *Bold) Append(children ...Node) { n.Children = append(n.Children, children...) }

type Italic struct {
	base
	Children []Node
}

func (*Italic) Kind() Kind                { return KindItalic }
func (n *Italic) Nodes() []Node           { return n.Children }
func (n *Italic) Append(children ...Node) { n.Children = append(n.Children, children...) }

type Underline struct {
	base
	Children []Node
}

func (*Underline) Kind() Kind                { return KindUnderline }
func (n *Underline) Nodes() []Node           { return n.Children }
func (n *Underline) Append(children ...Node) { n.Children = append(n.Children, children...) }

type Strikethrough struct {
	base
	Children []Node
}

func (*Strikethrough) Kind() Kind                { return KindStrikethrough }
func (n *Strikethrough) Nodes() []Node           { return n.Children }
func (n *Strikethrough) Append(children ...Node) { n.Children = append(n.Children, children...) }

// Code is inline code.
type Code struct {
	base
	Children []Node
}

func (*Code) Kind() Kind                { return KindCode }
func (n *Code) Nodes() []Node           { return n.Children }
func (n *Code) Append(children ...Node) { n.Children = append(n.Children, children...) }

type Superscript struct {
	base
	Children []Node
}

func (*Superscript) Kind() Kind                { return KindSuperscript }
func (n *Superscript) Nodes() []Node           { return n.Children }
func (n *Superscript) Append(children ...Node) { n.Children = append(n.Children, children...) }

type Subscript struct {
	base
	Children []Node
}

func (*Subscript) Kind() Kind                { return KindSubscript }
func (n *Subscript) Nodes() []Node           { return n.Children }
func (n *Subscript) Append(children ...Node) { n.Children = append(n.Children, children...) }

// CodeBlock is a block of preformatted code. Language may be empty.
type CodeBlock struct {
	base
	Language string
	Children []Node
}

func (*CodeBlock) Kind() Kind                { return KindCodeBlock }
func (n *CodeBlock) Nodes() []Node           { return n.Children }
func (n *CodeBlock) Append(children ...Node) { n.Children = append(n.Children, children...) }

type InlineQuote struct {
	base
	Children []Node
}

func (*InlineQuote) Kind() Kind                { return KindInlineQuote }
func (n *InlineQuote) Nodes() []Node           { return n.Children }
func (n *InlineQuote) Append(children ...Node) { n.Children = append(n.Children, children...) }

type BlockQuote struct {
	base
	Children []Node
}

func (*BlockQuote) Kind() Kind                { return KindBlockQuote }
func (n *BlockQuote) Nodes() []Node           { return n.Children }
func (n *BlockQuote) Append(children ...Node) { n.Children = append(n.Children, children...) }

type ListItem struct {
	base
	Children []Node
}

func (*ListItem) Kind() Kind                { return KindListItem }
func (n *ListItem) Nodes() []Node           { return n.Children }
func (n *ListItem) Append(children ...Node) { n.Children = append(n.Children, children...) }

// Cell is a single table cell.
type Cell struct {
	base
	Children []Node
}

func (*Cell) Kind() Kind                { return KindCell }
func (n *Cell) Nodes() []Node           { return n.Children }
func (n *Cell) Append(children ...Node) { n.Children = append(n.Children, children...) }

// Section is a titled, referenceable part of a document. Sections nest.
// Reference is the anchor other nodes link to; see AssignReferences.
type Section struct {
	base
	Title     Node
	Reference string
	Children  []Node
}

func (*Section) Kind() Kind                { return KindSection }
func (n *Section) Nodes() []Node           { return n.Children }
func (n *Section) Append(children ...Node) { n.Children = append(n.Children, children...) }

// InternalLink points at a section of the same document.
type InternalLink struct {
	base
	SectionReference string
	Children         []Node
}

func (*InternalLink) Kind() Kind                { return KindInternalLink }
func (n *InternalLink) Nodes() []Node           { return n.Children }
func (n *InternalLink) Append(children ...Node) { n.Children = append(n.Children, children...) }

// ExternalLink points at another document, optionally at one of its sections.
type ExternalLink struct {
	base
	DocumentReference string
	SectionReference  string
	Children          []Node
}

func (*ExternalLink) Kind() Kind                { return KindExternalLink }
func (n *ExternalLink) Nodes() []Node           { return n.Children }
func (n *ExternalLink) Append(children ...Node) { n.Children = append(n.Children, children...) }

// WebLink points at a URI.
type WebLink struct {
	base
	URI      string
	Children []Node
}

func (*WebLink) Kind() Kind                { return KindWebLink }
func (n *WebLink) Nodes() []Node           { return n.Children }
func (n *WebLink) Append(children ...Node) { n.Children = append(n.Children, children...) }

// List is implemented by the three list variants.
type List interface {
	Node
	Len() int
	Entries() []Node
}

type UnorderedList struct {
	base
	Items []*ListItem
}

func (*UnorderedList) Kind() Kind        { return KindUnorderedList }
func (n *UnorderedList) Len() int        { return len(n.Items) }
func (n *UnorderedList) Entries() []Node { return listEntries(n.Items) }

type OrderedList struct {
	base
	Items []*ListItem
}

func (*OrderedList) Kind() Kind        { return KindOrderedList }
func (n *OrderedList) Len() int        { return len(n.Items) }
func (n *OrderedList) Entries() []Node { return listEntries(n.Items) }

type DefinitionList struct {
	base
	Items []*Definition
}

func (*DefinitionList) Kind() Kind { return KindDefinitionList }
func (n *DefinitionList) Len() int { return len(n.Items) }

func (n *DefinitionList) Entries() []Node {
	out := make([]Node, 0, len(n.Items))
	for _, d := range n.Items {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

func listEntries(items []*ListItem) []Node {
	out := make([]Node, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Definition pairs one term with one definition.
type Definition struct {
	base
	Term       Node
	Definition Node
}

func (*Definition) Kind() Kind { return KindDefinition }

// Image references external image data.
type Image struct {
	base
	Source      string
	Description string
}

func (*Image) Kind() Kind { return KindImage }

// Figure is an image with a caption.
type Figure struct {
	base
	Image       *Image
	Description []Node
}

func (*Figure) Kind() Kind { return KindFigure }

type Table struct {
	base
	Rows []*Row
}

func (*Table) Kind() Kind { return KindTable }

// Row holds the header, body and footer cells of one table row.
type Row struct {
	base
	Header []*Cell
	Cells  []*Cell
	Footer []*Cell
}

func (*Row) Kind() Kind { return KindRow }
