package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/docmodel/internal/doctree"
	"github.com/dgallion1/docmodel/internal/parser"
)

// loadDocument parses the file at path and assigns section references.
func loadDocument(path string) (*doctree.Document, error) {
	doc, err := parseDocument(path)
	if err != nil {
		return nil, err
	}
	doctree.AssignReferences(doc)
	return doc, nil
}

// parseDocument parses the file at path, leaving references as the file
// declares them.
func parseDocument(path string) (*doctree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name, _ := parser.WithDetectedExtension(path, data)
	p, err := parser.ForFile(name)
	if err != nil {
		return nil, err
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = !noPdftotext
	}

	start := time.Now()
	doc, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debug("parsed document", "path", path, "format", filepath.Ext(name), "title", doc.Title, "duration", time.Since(start))
	return doc, nil
}
