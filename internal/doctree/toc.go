package doctree

// BuildTOC returns a table of contents for doc: an ordered list with one item
// per section, each holding an InternalLink to the section followed by a
// nested ordered list for its subsections, if any.
//
// Sections are found through any content-shaped wrappers; lists, tables,
// figures and definitions are not searched. The link label is a copy of the
// section title, so the result shares no nodes with doc.
//
// References must already be assigned (see AssignReferences). Sections
// without one produce links with an empty SectionReference.
func BuildTOC(doc *Document) *OrderedList {
	root := &OrderedList{}

	type open struct {
		section *Section
		depth   int
		item    *ListItem
		sub     *OrderedList
	}
	var stack []*open
	// path[d] is the element most recently visited at depth d, which is an
	// ancestor of everything visited after it at a greater depth.
	var path []Element

	Inspect(doc, func(e Element, depth int) bool {
		path = append(path[:depth], e)

		s, ok := e.(*Section)
		if !ok {
			switch e.Kind().Shape() {
			case ShapeDocument, ShapeContent:
				return true
			}
			return false
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.depth < depth && path[top.depth] == Element(top.section) {
				break
			}
			stack = stack[:len(stack)-1]
		}

		target := root
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			if parent.sub == nil {
				parent.sub = &OrderedList{}
				parent.item.Children = append(parent.item.Children, parent.sub)
			}
			target = parent.sub
		}

		link := &InternalLink{SectionReference: s.Reference}
		if s.Title != nil {
			link.Children = []Node{Clone(s.Title)}
		}
		item := &ListItem{Children: []Node{link}}
		target.Items = append(target.Items, item)
		stack = append(stack, &open{section: s, depth: depth, item: item})
		return true
	})

	return root
}
