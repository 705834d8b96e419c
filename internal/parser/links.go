package parser

import (
	"net/url"
	"strings"

	"github.com/dgallion1/docmodel/internal/doctree"
)

// linkNode classifies a link destination: "#ref" targets a section of this
// document, anything with a scheme is a web link, and the rest names another
// document with an optional "#section" suffix.
func linkNode(dest string, children []doctree.Node) doctree.Node {
	dest = strings.TrimSpace(dest)
	if ref, ok := strings.CutPrefix(dest, "#"); ok {
		return &doctree.InternalLink{SectionReference: ref, Children: children}
	}
	if u, err := url.Parse(dest); err == nil && u.Scheme != "" {
		return &doctree.WebLink{URI: dest, Children: children}
	}
	docRef, secRef, _ := strings.Cut(dest, "#")
	return &doctree.ExternalLink{DocumentReference: docRef, SectionReference: secRef, Children: children}
}
