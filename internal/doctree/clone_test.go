package doctree

import "testing"

func cloneFixture() *Document {
	s := NewSection("Title",
		NewParagraph(NewText("a "), &WebLink{URI: "http://x", Children: []Node{NewText("x")}}),
		&CodeBlock{Language: "go", Children: []Node{NewText("func main() {}")}},
		&UnorderedList{Items: []*ListItem{NewListItem(NewText("one"))}},
		&DefinitionList{Items: []*Definition{{Term: NewText("t"), Definition: NewText("d")}}},
		NewFigure("f.png", "cap"),
		&Table{Rows: []*Row{{Header: []*Cell{NewCell("h")}, Cells: []*Cell{NewCell("c")}}}},
	)
	s.Reference = "title"
	s.SetMeta("page", 3)
	return &Document{Title: "doc", Keywords: []string{"k"}, Children: []Node{s}}
}

func TestCloneDocument_EqualButIndependent(t *testing.T) {
	doc := cloneFixture()
	cp := CloneDocument(doc)

	if !EqualDocuments(doc, cp) {
		t.Fatal("expected clone to be equal to the source")
	}

	source := map[Node]bool{}
	Walk(doc, func(e Element, _ int) {
		if n, ok := e.(Node); ok {
			source[n] = true
		}
	})
	Walk(cp, func(e Element, _ int) {
		if n, ok := e.(Node); ok && source[n] {
			t.Errorf("clone shares %s node with source", n.Kind())
		}
	})

	cp.Children[0].(*Section).Reference = "changed"
	cp.Keywords[0] = "changed"
	if doc.Children[0].(*Section).Reference != "title" || doc.Keywords[0] != "k" {
		t.Error("mutating the clone changed the source")
	}
}

func TestClone_CopiesMetadataMap(t *testing.T) {
	tx := NewText("x")
	tx.SetMeta("k", "v")
	cp := Clone(tx).(*Text)
	cp.SetMeta("k", "other")
	if tx.Meta()["k"] != "v" {
		t.Error("expected metadata map to be copied")
	}
}

func TestClone_Nil(t *testing.T) {
	if Clone(nil) != nil {
		t.Error("expected nil")
	}
	if CloneDocument(nil) != nil {
		t.Error("expected nil")
	}
}
