package doctree

// Collect returns every node of type T at or below e, in walk order.
// The nodes are returned by reference.
func Collect[T Node](e Element) []T {
	var out []T
	Walk(e, func(el Element, _ int) {
		if n, ok := el.(T); ok {
			out = append(out, n)
		}
	})
	return out
}

func Figures(doc *Document) []*Figure { return Collect[*Figure](doc) }

func Tables(doc *Document) []*Table { return Collect[*Table](doc) }

func WebLinks(doc *Document) []*WebLink { return Collect[*WebLink](doc) }

func Sections(doc *Document) []*Section { return Collect[*Section](doc) }
