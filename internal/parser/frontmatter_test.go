package parser

import (
	"slices"
	"testing"
	"time"

	"github.com/dgallion1/docmodel/internal/doctree"
)

func TestMarkdownParser_YAMLFrontMatter(t *testing.T) {
	input := `---
title: Field Guide
author: [Ada, Grace]
description: How the parts fit
tags: guide, field
lang: en
version: "2.1"
date: 2024-03-05
id: field-guide
---
# Intro

Hello.
`
	doc := parseMarkdown(t, input, "guide.md")

	if doc.Title != "Field Guide" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Creator != "Ada, Grace" {
		t.Errorf("Creator = %q", doc.Creator)
	}
	if doc.Description != "How the parts fit" {
		t.Errorf("Description = %q", doc.Description)
	}
	if !slices.Equal(doc.Keywords, []string{"guide", "field"}) {
		t.Errorf("Keywords = %v", doc.Keywords)
	}
	if doc.Language != "en" || doc.Version != "2.1" || doc.Reference != "field-guide" {
		t.Errorf("Language=%q Version=%q Reference=%q", doc.Language, doc.Version, doc.Reference)
	}
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if !doc.CreatedOn.Equal(want) {
		t.Errorf("CreatedOn = %v, want %v", doc.CreatedOn, want)
	}

	if len(doc.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(doc.Children))
	}
	s := sectionAt(t, doc.Children, 0)
	if got := doctree.CollectText(s.Title); got != "Intro" {
		t.Errorf("section title = %q", got)
	}
}

func TestMarkdownParser_TOMLFrontMatter(t *testing.T) {
	input := `+++
title = "Release Notes"
author = "Ops"
keywords = ["release", "notes"]
publisher = "Docs Team"
date = 2023-11-20
+++
Body text.
`
	doc := parseMarkdown(t, input, "notes.md")

	if doc.Title != "Release Notes" || doc.Creator != "Ops" || doc.Publisher != "Docs Team" {
		t.Errorf("Title=%q Creator=%q Publisher=%q", doc.Title, doc.Creator, doc.Publisher)
	}
	if !slices.Equal(doc.Keywords, []string{"release", "notes"}) {
		t.Errorf("Keywords = %v", doc.Keywords)
	}
	if got := doc.CreatedOn.Format("2006-01-02"); got != "2023-11-20" {
		t.Errorf("CreatedOn = %s", got)
	}
	if len(doc.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(doc.Children))
	}
	if got := doctree.CollectText(doc.Children[0]); got != "Body text." {
		t.Errorf("body = %q", got)
	}
}

func TestMarkdownParser_FrontMatterFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		children int
	}{
		// A thematic break with no closing delimiter is ordinary Markdown.
		{"unclosed", "---\n\nJust a paragraph.\n", 1},
		// A block that is not a mapping stays in the body.
		{"not a mapping", "---\nplain words\n---\n", 1},
		{"no front matter", "Text only.\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseMarkdown(t, tt.input, "doc.md")
			if doc.Title != "doc" {
				t.Errorf("Title = %q, want filename title", doc.Title)
			}
			if len(doc.Children) != tt.children {
				t.Errorf("children = %d, want %d", len(doc.Children), tt.children)
			}
		})
	}
}

func TestSplitFrontMatter(t *testing.T) {
	format, meta, body := splitFrontMatter([]byte("---\r\na: 1\r\n---\r\nrest"))
	if format != "yaml" {
		t.Fatalf("format = %q", format)
	}
	if string(meta) != "a: 1\r\n" {
		t.Errorf("meta = %q", meta)
	}
	if string(body) != "rest" {
		t.Errorf("body = %q", body)
	}

	format, _, body = splitFrontMatter([]byte("+++\ntitle = 'x'\n+++"))
	if format != "toml" || len(body) != 0 {
		t.Errorf("format=%q body=%q", format, body)
	}

	if format, _, _ := splitFrontMatter([]byte("----\nx\n----\n")); format != "" {
		t.Errorf("four dashes should not open front matter, got %q", format)
	}
}
