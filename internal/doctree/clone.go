package doctree

import "maps"

// Clone returns a deep copy of n. Metadata maps are copied shallowly: the
// map is new, the values are shared.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	switch x := n.(type) {
	case *Text:
		return &Text{base: cloneBase(x.base), Text: x.Text}
	case *Content:
		return &Content{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *Paragraph:
		return &Paragraph{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *Bold:
		return &Bold{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *Italic:
		return &Italic{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *Underline:
		return &Underline{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *Strikethrough:
		return &Strikethrough{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *Code:
		return &Code{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *Superscript:
		return &Superscript{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *Subscript:
		return &Subscript{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *CodeBlock:
		return &CodeBlock{base: cloneBase(x.base), Language: x.Language, Children: cloneNodes(x.Children)}
	case *InlineQuote:
		return &InlineQuote{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *BlockQuote:
		return &BlockQuote{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
	case *ListItem:
		return cloneListItem(x)
	case *Cell:
		return cloneCell(x)
	case *Section:
		return &Section{
			base:      cloneBase(x.base),
			Title:     Clone(x.Title),
			Reference: x.Reference,
			Children:  cloneNodes(x.Children),
		}
	case *InternalLink:
		return &InternalLink{base: cloneBase(x.base), SectionReference: x.SectionReference, Children: cloneNodes(x.Children)}
	case *ExternalLink:
		return &ExternalLink{
			base:              cloneBase(x.base),
			DocumentReference: x.DocumentReference,
			SectionReference:  x.SectionReference,
			Children:          cloneNodes(x.Children),
		}
	case *WebLink:
		return &WebLink{base: cloneBase(x.base), URI: x.URI, Children: cloneNodes(x.Children)}
	case *UnorderedList:
		return &UnorderedList{base: cloneBase(x.base), Items: cloneItems(x.Items)}
	case *OrderedList:
		return &OrderedList{base: cloneBase(x.base), Items: cloneItems(x.Items)}
	case *DefinitionList:
		out := &DefinitionList{base: cloneBase(x.base)}
		for _, d := range x.Items {
			out.Items = append(out.Items, cloneDefinition(d))
		}
		return out
	case *Definition:
		return cloneDefinition(x)
	case *Image:
		return cloneImage(x)
	case *Figure:
		return &Figure{base: cloneBase(x.base), Image: cloneImage(x.Image), Description: cloneNodes(x.Description)}
	case *Table:
		out := &Table{base: cloneBase(x.base)}
		for _, r := range x.Rows {
			out.Rows = append(out.Rows, cloneRow(r))
		}
		return out
	case *Row:
		return cloneRow(x)
	}
	panic("doctree: Clone: unhandled kind " + n.Kind().String())
}

// CloneDocument returns a deep copy of doc.
func CloneDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := *doc
	out.Keywords = append([]string(nil), doc.Keywords...)
	out.Metadata = maps.Clone(doc.Metadata)
	out.Children = cloneNodes(doc.Children)
	return &out
}

func cloneBase(b base) base {
	return base{Metadata: maps.Clone(b.Metadata)}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

func cloneItems(items []*ListItem) []*ListItem {
	if items == nil {
		return nil
	}
	out := make([]*ListItem, len(items))
	for i, it := range items {
		out[i] = cloneListItem(it)
	}
	return out
}

func cloneListItem(x *ListItem) *ListItem {
	if x == nil {
		return nil
	}
	return &ListItem{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
}

func cloneCell(x *Cell) *Cell {
	if x == nil {
		return nil
	}
	return &Cell{base: cloneBase(x.base), Children: cloneNodes(x.Children)}
}

func cloneCells(cells []*Cell) []*Cell {
	if cells == nil {
		return nil
	}
	out := make([]*Cell, len(cells))
	for i, c := range cells {
		out[i] = cloneCell(c)
	}
	return out
}

func cloneRow(x *Row) *Row {
	if x == nil {
		return nil
	}
	return &Row{
		base:   cloneBase(x.base),
		Header: cloneCells(x.Header),
		Cells:  cloneCells(x.Cells),
		Footer: cloneCells(x.Footer),
	}
}

func cloneDefinition(x *Definition) *Definition {
	if x == nil {
		return nil
	}
	return &Definition{base: cloneBase(x.base), Term: Clone(x.Term), Definition: Clone(x.Definition)}
}

func cloneImage(x *Image) *Image {
	if x == nil {
		return nil
	}
	return &Image{base: cloneBase(x.base), Source: x.Source, Description: x.Description}
}
