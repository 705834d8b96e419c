package parser

import "github.com/dgallion1/docmodel/internal/doctree"

type appender interface {
	Append(children ...doctree.Node)
}

// outline nests sections by heading level. Level 0 is the document itself;
// a heading closes every open section at the same or a deeper level.
type outline struct {
	doc   *doctree.Document
	stack []outlineEntry
}

type outlineEntry struct {
	section *doctree.Section
	level   int
}

func newOutline(doc *doctree.Document) *outline {
	return &outline{doc: doc}
}

// heading opens a new section at level and makes it the current container.
func (o *outline) heading(level int, title doctree.Node, reference string) *doctree.Section {
	for len(o.stack) > 0 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	s := &doctree.Section{Title: title, Reference: reference}
	s.SetMeta("level", level)
	o.current().Append(s)
	o.stack = append(o.stack, outlineEntry{section: s, level: level})
	return s
}

// add appends block content to the current container.
func (o *outline) add(nodes ...doctree.Node) {
	for _, n := range nodes {
		if n != nil {
			o.current().Append(n)
		}
	}
}

func (o *outline) current() appender {
	if len(o.stack) == 0 {
		return o.doc
	}
	return o.stack[len(o.stack)-1].section
}

// inlineTitle turns a run of inline nodes into a single title node.
func inlineTitle(nodes []doctree.Node) doctree.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	return doctree.NewContent(nodes...)
}
