package doctree

import "context"

// Visitor is called once per element during a walk. depth is 0 for the
// element the walk started from and grows by one per structural level.
//
// A visitor may modify the element it is given. It must not detach that
// element from its parent or modify ancestors already visited.
type Visitor func(e Element, depth int)

// Walk visits e and everything below it in depth-first pre-order.
func Walk(e Element, visit Visitor) {
	WalkDepth(e, 0, visit)
}

// WalkDepth is Walk with the starting depth supplied by the caller.
func WalkDepth(e Element, depth int, visit Visitor) {
	visit(e, depth)
	for _, c := range Children(e) {
		WalkDepth(c, depth+1, visit)
	}
}

// Inspect walks like Walk, but skips the sub-nodes of any element for which
// fn returns false.
func Inspect(e Element, fn func(e Element, depth int) bool) {
	inspect(e, 0, fn)
}

func inspect(e Element, depth int, fn func(Element, int) bool) {
	if !fn(e, depth) {
		return
	}
	for _, c := range Children(e) {
		inspect(c, depth+1, fn)
	}
}

// WalkContext walks like Walk and stops before the next visit once ctx is
// done, returning ctx.Err().
func WalkContext(ctx context.Context, e Element, visit Visitor) error {
	return walkContext(ctx, e, 0, visit)
}

func walkContext(ctx context.Context, e Element, depth int, visit Visitor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	visit(e, depth)
	for _, c := range Children(e) {
		if err := walkContext(ctx, c, depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}

// Children returns the structural sub-nodes of e in traversal order. The
// result may share its backing array with e; callers must not modify it.
func Children(e Element) []Node {
	switch e.Kind().Shape() {
	case ShapeContent:
		return e.(Branch).Nodes()
	case ShapeDocument:
		return e.(*Document).Children
	case ShapeSection:
		s := e.(*Section)
		if s.Title == nil {
			return s.Children
		}
		out := make([]Node, 0, 1+len(s.Children))
		out = append(out, s.Title)
		return append(out, s.Children...)
	case ShapeDefinition:
		d := e.(*Definition)
		var out []Node
		if d.Term != nil {
			out = append(out, d.Term)
		}
		if d.Definition != nil {
			out = append(out, d.Definition)
		}
		return out
	case ShapeFigure:
		f := e.(*Figure)
		if f.Image == nil {
			return f.Description
		}
		out := make([]Node, 0, 1+len(f.Description))
		out = append(out, f.Image)
		return append(out, f.Description...)
	case ShapeList:
		return e.(List).Entries()
	case ShapeTable:
		t := e.(*Table)
		out := make([]Node, 0, len(t.Rows))
		for _, r := range t.Rows {
			if r != nil {
				out = append(out, r)
			}
		}
		return out
	case ShapeRow:
		r := e.(*Row)
		out := make([]Node, 0, len(r.Header)+len(r.Cells)+len(r.Footer))
		for _, group := range [][]*Cell{r.Header, r.Cells, r.Footer} {
			for _, c := range group {
				if c != nil {
					out = append(out, c)
				}
			}
		}
		return out
	}
	return nil
}
