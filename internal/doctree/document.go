package doctree

import "time"

// Document is the root of a tree. It is visited by the walker like a node but
// is not a Node and cannot appear as a child.
type Document struct {
	Title       string
	Creator     string
	Publisher   string
	Subject     string
	Description string
	Keywords    []string
	Reference   string
	Language    string
	Rights      string
	Version     string
	CreatedOn   time.Time

	Metadata Metadata
	Children []Node
}

func (*Document) Kind() Kind { return KindDocument }

func (d *Document) Nodes() []Node { return d.Children }

func (d *Document) Append(children ...Node) {
	d.Children = append(d.Children, children...)
}
