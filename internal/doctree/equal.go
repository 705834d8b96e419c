package doctree

import "slices"

// Equal reports whether a and b are structurally the same: same variant, same
// scalar fields and pairwise-equal sub-nodes in the same order. Metadata is
// not compared.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *Text:
		return x.Text == b.(*Text).Text
	case *Image:
		return equalImage(x, b.(*Image))
	case *CodeBlock:
		if x.Language != b.(*CodeBlock).Language {
			return false
		}
	case *Section:
		y := b.(*Section)
		if x.Reference != y.Reference || !Equal(x.Title, y.Title) {
			return false
		}
		return equalNodes(x.Children, y.Children)
	case *InternalLink:
		if x.SectionReference != b.(*InternalLink).SectionReference {
			return false
		}
	case *ExternalLink:
		y := b.(*ExternalLink)
		if x.DocumentReference != y.DocumentReference || x.SectionReference != y.SectionReference {
			return false
		}
	case *WebLink:
		if x.URI != b.(*WebLink).URI {
			return false
		}
	case *Definition:
		y := b.(*Definition)
		return Equal(x.Term, y.Term) && Equal(x.Definition, y.Definition)
	case *Figure:
		y := b.(*Figure)
		return equalImage(x.Image, y.Image) && equalNodes(x.Description, y.Description)
	case *Row:
		return equalRow(x, b.(*Row))
	case *Table:
		return slices.EqualFunc(x.Rows, b.(*Table).Rows, equalRow)
	case List:
		return equalNodes(x.Entries(), b.(List).Entries())
	}

	// Every remaining variant is a plain Branch whose scalars matched above.
	return equalNodes(a.(Branch).Nodes(), b.(Branch).Nodes())
}

// EqualDocuments compares the descriptive fields and the children of two
// documents. Metadata is not compared.
func EqualDocuments(a, b *Document) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Title == b.Title &&
		a.Creator == b.Creator &&
		a.Publisher == b.Publisher &&
		a.Subject == b.Subject &&
		a.Description == b.Description &&
		slices.Equal(a.Keywords, b.Keywords) &&
		a.Reference == b.Reference &&
		a.Language == b.Language &&
		a.Rights == b.Rights &&
		a.Version == b.Version &&
		a.CreatedOn.Equal(b.CreatedOn) &&
		equalNodes(a.Children, b.Children)
}

func equalNodes(a, b []Node) bool {
	return slices.EqualFunc(a, b, Equal)
}

func equalCells(a, b []*Cell) bool {
	return slices.EqualFunc(a, b, func(x, y *Cell) bool {
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return equalNodes(x.Children, y.Children)
	})
}

func equalRow(a, b *Row) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalCells(a.Header, b.Header) && equalCells(a.Cells, b.Cells) && equalCells(a.Footer, b.Footer)
}

func equalImage(a, b *Image) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Source == b.Source && a.Description == b.Description
}
