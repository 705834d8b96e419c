package doctree

import (
	"context"
	"errors"
	"testing"
)

func TestWalk_DepthAndOrder(t *testing.T) {
	underline := &Underline{}
	italic := &Italic{Children: []Node{underline}}
	bold := &Bold{Children: []Node{italic}}
	doc := &Document{Children: []Node{bold}}

	var kinds []Kind
	var depths []int
	Walk(doc, func(e Element, depth int) {
		kinds = append(kinds, e.Kind())
		depths = append(depths, depth)
	})

	wantKinds := []Kind{KindDocument, KindBold, KindItalic, KindUnderline}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("expected %d visits, got %d", len(wantKinds), len(kinds))
	}
	for i := range wantKinds {
		if kinds[i] != wantKinds[i] {
			t.Errorf("visit %d: expected %s, got %s", i, wantKinds[i], kinds[i])
		}
		if depths[i] != i {
			t.Errorf("visit %d: expected depth %d, got %d", i, i, depths[i])
		}
	}
}

func TestWalk_StructuralOrder(t *testing.T) {
	doc := &Document{Children: []Node{
		&Section{
			Title:    NewText("title"),
			Children: []Node{NewParagraph(NewText("body"))},
		},
		&DefinitionList{Items: []*Definition{{Term: NewText("term"), Definition: NewText("def")}}},
		&Figure{Image: &Image{Source: "a.png"}, Description: []Node{NewText("caption")}},
		&Table{Rows: []*Row{{
			Header: []*Cell{NewCell("h")},
			Cells:  []*Cell{NewCell("c")},
			Footer: []*Cell{NewCell("f")},
		}}},
	}}

	var texts []string
	Walk(doc, func(e Element, _ int) {
		if tx, ok := e.(*Text); ok {
			texts = append(texts, tx.Text)
		}
	})

	want := []string{"title", "body", "term", "def", "caption", "h", "c", "f"}
	if len(texts) != len(want) {
		t.Fatalf("expected %v, got %v", want, texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("text %d: expected %q, got %q", i, want[i], texts[i])
		}
	}
}

func TestWalk_NodeStartsAtDepthZero(t *testing.T) {
	p := NewParagraph(NewText("x"))
	var got []int
	Walk(p, func(_ Element, depth int) { got = append(got, depth) })
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("expected depths [0 1], got %v", got)
	}
}

func TestWalkDepth_Offset(t *testing.T) {
	p := NewParagraph(NewText("x"))
	var got []int
	WalkDepth(p, 5, func(_ Element, depth int) { got = append(got, depth) })
	if len(got) != 2 || got[0] != 5 || got[1] != 6 {
		t.Errorf("expected depths [5 6], got %v", got)
	}
}

func TestWalk_SkipsNilSlots(t *testing.T) {
	doc := &Document{Children: []Node{
		&Section{Children: []Node{NewText("a")}},
		&Definition{Term: NewText("t")},
		&Figure{Description: []Node{NewText("d")}},
	}}
	count := 0
	Walk(doc, func(Element, int) { count++ })
	// document, section, a, definition, t, figure, d
	if count != 7 {
		t.Errorf("expected 7 visits, got %d", count)
	}
}

func TestWalk_VisitorMayMutateCurrentNode(t *testing.T) {
	doc := &Document{Children: []Node{NewSection("A"), NewSection("B")}}
	Walk(doc, func(e Element, _ int) {
		if s, ok := e.(*Section); ok {
			s.Reference = CollectText(s.Title)
		}
	})
	secs := Sections(doc)
	if secs[0].Reference != "A" || secs[1].Reference != "B" {
		t.Errorf("expected references A and B, got %q and %q", secs[0].Reference, secs[1].Reference)
	}
}

func TestInspect_Prunes(t *testing.T) {
	doc := &Document{Children: []Node{
		NewParagraph(NewText("skip me")),
		NewContent(NewText("keep me")),
	}}
	var texts []string
	Inspect(doc, func(e Element, _ int) bool {
		if tx, ok := e.(*Text); ok {
			texts = append(texts, tx.Text)
		}
		return e.Kind() != KindParagraph
	})
	if len(texts) != 1 || texts[0] != "keep me" {
		t.Errorf("expected [keep me], got %v", texts)
	}
}

func TestWalkContext_Completes(t *testing.T) {
	doc := &Document{Children: []Node{NewParagraph(NewText("a"), NewText("b"))}}
	count := 0
	if err := WalkContext(context.Background(), doc, func(Element, int) { count++ }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 visits, got %d", count)
	}
}

func TestWalkContext_StopsWhenCancelled(t *testing.T) {
	doc := &Document{Children: []Node{NewParagraph(NewText("a"), NewText("b"))}}
	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	err := WalkContext(ctx, doc, func(e Element, _ int) {
		count++
		if e.Kind() == KindParagraph {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 visits before stopping, got %d", count)
	}
}
