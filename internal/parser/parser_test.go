package parser

import (
	"fmt"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"a.md", "*parser.MarkdownParser", false},
		{"a.MARKDOWN", "*parser.MarkdownParser", false},
		{"a.htm", "*parser.HTMLParser", false},
		{"a.docx", "*parser.DOCXParser", false},
		{"a.pdf", "*parser.PDFParser", false},
		{"a.csv", "*parser.CSVParser", false},
		{"a.txt", "*parser.TextParser", false},
		{"a.exe", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p, err := ForFile(tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.filename)
				}
				if IsSupportedExtension(tt.filename) {
					t.Errorf("%s should not be supported", tt.filename)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := fmt.Sprintf("%T", p); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWithDetectedExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		want     string
		ok       bool
	}{
		{"pdf magic", "upload", "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n", "upload.pdf", true},
		{"html", "page", "<!DOCTYPE html><html><head><title>x</title></head></html>", "page.html", true},
		{"plain text", "notes", "just some words\n", "notes.txt", true},
		{"binary", "blob", "\x00\x01\x02\x03\xff", "blob", false},
		{"extension kept", "photo.png", "plain text", "photo.png", false},
		{"supported extension", "readme.md", "%PDF-1.4", "readme.md", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WithDetectedExtension(tt.filename, []byte(tt.data))
			if got != tt.want || ok != tt.ok {
				t.Errorf("WithDetectedExtension(%q) = %q, %v; want %q, %v", tt.filename, got, ok, tt.want, tt.ok)
			}
		})
	}
}
