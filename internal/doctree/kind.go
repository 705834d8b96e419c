package doctree

// Kind identifies a node variant.
type Kind int

const (
	KindInvalid Kind = iota

	KindText
	KindContent
	KindParagraph
	KindBold
	KindItalic
	KindUnderline
	KindStrikethrough
	KindCode
	KindSuperscript
	KindSubscript
	KindCodeBlock
	KindInlineQuote
	KindBlockQuote
	KindListItem
	KindCell
	KindSection
	KindInternalLink
	KindExternalLink
	KindWebLink
	KindUnorderedList
	KindOrderedList
	KindDefinitionList
	KindDefinition
	KindImage
	KindFigure
	KindTable
	KindRow
	KindDocument

	kindCount
)

// Shape classifies how the walker descends into an element.
type Shape int

const (
	ShapeNone       Shape = iota
	ShapeLeaf             // no sub-nodes (Text, Image)
	ShapeContent          // one children sequence
	ShapeSection          // title, then children
	ShapeDefinition       // term, then definition
	ShapeFigure           // image, then description
	ShapeList             // items
	ShapeTable            // rows
	ShapeRow              // header, cells, footer
	ShapeDocument         // children of the root
)

type kindInfo struct {
	name  string
	shape Shape
}

var kinds = [kindCount]kindInfo{
	KindInvalid:        {"Invalid", ShapeNone},
	KindText:           {"Text", ShapeLeaf},
	KindContent:        {"Content", ShapeContent},
	KindParagraph:      {"Paragraph", ShapeContent},
	KindBold:           {"Bold", ShapeContent},
	KindItalic:         {"Italic", ShapeContent},
	KindUnderline:      {"Underline", ShapeContent},
	KindStrikethrough:  {"Strikethrough", ShapeContent},
	KindCode:           {"Code", ShapeContent},
	KindSuperscript:    {"Superscript", ShapeContent},
	KindSubscript:      {"Subscript", ShapeContent},
	KindCodeBlock:      {"CodeBlock", ShapeContent},
	KindInlineQuote:    {"InlineQuote", ShapeContent},
	KindBlockQuote:     {"BlockQuote", ShapeContent},
	KindListItem:       {"ListItem", ShapeContent},
	KindCell:           {"Cell", ShapeContent},
	KindSection:        {"Section", ShapeSection},
	KindInternalLink:   {"InternalLink", ShapeContent},
	KindExternalLink:   {"ExternalLink", ShapeContent},
	KindWebLink:        {"WebLink", ShapeContent},
	KindUnorderedList:  {"UnorderedList", ShapeList},
	KindOrderedList:    {"OrderedList", ShapeList},
	KindDefinitionList: {"DefinitionList", ShapeList},
	KindDefinition:     {"Definition", ShapeDefinition},
	KindImage:          {"Image", ShapeLeaf},
	KindFigure:         {"Figure", ShapeFigure},
	KindTable:          {"Table", ShapeTable},
	KindRow:            {"Row", ShapeRow},
	KindDocument:       {"Document", ShapeDocument},
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Unknown"
	}
	return kinds[k].name
}

// Shape reports the traversal shape of the variant.
func (k Kind) Shape() Shape {
	if k < 0 || k >= kindCount {
		return ShapeNone
	}
	return kinds[k].shape
}

// IsLink reports whether k is one of the link variants.
func (k Kind) IsLink() bool {
	return k == KindInternalLink || k == KindExternalLink || k == KindWebLink
}

// IsMarkup reports whether k is an inline markup span.
func (k Kind) IsMarkup() bool {
	switch k {
	case KindBold, KindItalic, KindUnderline, KindStrikethrough,
		KindCode, KindSuperscript, KindSubscript:
		return true
	}
	return false
}

func (s Shape) String() string {
	switch s {
	case ShapeLeaf:
		return "leaf"
	case ShapeContent:
		return "content"
	case ShapeSection:
		return "section"
	case ShapeDefinition:
		return "definition"
	case ShapeFigure:
		return "figure"
	case ShapeList:
		return "list"
	case ShapeTable:
		return "table"
	case ShapeRow:
		return "row"
	case ShapeDocument:
		return "document"
	default:
		return "none"
	}
}
