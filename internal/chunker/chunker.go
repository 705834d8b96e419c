package chunker

import (
	"strings"

	"github.com/dgallion1/docmodel/internal/doctree"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
}

// Chunk is a sized text segment with its place in the document outline.
type Chunk struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`             // Sequence number within document
	Breadcrumb []string `json:"breadcrumb"`        // Section titles, outermost first
	Section    string   `json:"section,omitempty"` // Reference of the innermost section
	PageStart  int      `json:"page_start,omitempty"`
	PageEnd    int      `json:"page_end,omitempty"`
}

// ChunkDocument walks doc's sections and produces structure-aware chunks.
// Each run of block content between subsections is chunked as one run of
// paragraphs.
func ChunkDocument(doc *doctree.Document, cfg Config) []Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 100
	}

	w := &walker{cfg: cfg}
	w.container(doc.Children, scope{})
	return w.chunks
}

// scope is the outline position of the content being chunked.
type scope struct {
	breadcrumb []string
	section    string
	page       int
}

type walker struct {
	cfg    Config
	chunks []Chunk
}

func (w *walker) container(children []doctree.Node, sc scope) {
	var paras []string
	flush := func() {
		if len(paras) > 0 {
			w.emit(strings.Join(paras, "\n\n"), sc)
			paras = nil
		}
	}

	for _, n := range flatten(children) {
		s, ok := n.(*doctree.Section)
		if !ok {
			if t := strings.TrimSpace(blockText(n)); t != "" {
				paras = append(paras, t)
			}
			continue
		}
		flush()
		w.container(s.Children, w.enter(s, sc))
	}
	flush()
}

func (w *walker) enter(s *doctree.Section, parent scope) scope {
	sc := scope{
		breadcrumb: copyBreadcrumb(parent.breadcrumb),
		section:    s.Reference,
		page:       parent.page,
	}
	if s.Title != nil {
		if title := strings.TrimSpace(doctree.CollectText(s.Title)); title != "" {
			sc.breadcrumb = append(sc.breadcrumb, title)
		}
	}
	if p, ok := s.Meta()["page"].(int); ok {
		sc.page = p
	}
	return sc
}

func (w *walker) emit(text string, sc scope) {
	parts := []string{text}
	if EstimateTokens(text) > w.cfg.ChunkSize {
		parts = splitText(text, w.cfg.ChunkSize, w.cfg.ChunkOverlap)
	}
	for _, part := range parts {
		if EstimateTokens(part) < w.cfg.MinChunk {
			continue
		}
		w.chunks = append(w.chunks, Chunk{
			Text:       part,
			Index:      len(w.chunks),
			Breadcrumb: copyBreadcrumb(sc.breadcrumb),
			Section:    sc.section,
			PageStart:  sc.page,
			PageEnd:    sc.page,
		})
	}
}

// flatten splices the children of plain content wrappers into the list so
// sections nested in them are still found.
func flatten(nodes []doctree.Node) []doctree.Node {
	var out []doctree.Node
	for _, n := range nodes {
		if c, ok := n.(*doctree.Content); ok {
			out = append(out, flatten(c.Children)...)
			continue
		}
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// blockText renders one block as plain text. Lists and tables get line
// breaks between entries and rows so their words do not run together.
func blockText(n doctree.Node) string {
	switch b := n.(type) {
	case *doctree.Table:
		rows := make([]string, 0, len(b.Rows))
		for _, r := range b.Rows {
			var cells []string
			for _, group := range [][]*doctree.Cell{r.Header, r.Cells, r.Footer} {
				for _, c := range group {
					cells = append(cells, strings.TrimSpace(doctree.CollectText(c)))
				}
			}
			rows = append(rows, strings.Join(cells, " | "))
		}
		return strings.Join(rows, "\n")
	case *doctree.Definition:
		return strings.TrimSpace(doctree.CollectText(b.Term)) + ": " + strings.TrimSpace(doctree.CollectText(b.Definition))
	case doctree.List:
		entries := b.Entries()
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			if t := strings.TrimSpace(blockText(e)); t != "" {
				lines = append(lines, t)
			}
		}
		return strings.Join(lines, "\n")
	}
	return doctree.CollectText(n)
}

// splitText breaks text into chunks of approximately targetTokens, with overlap.
func splitText(text string, targetTokens, overlapTokens int) []string {
	// Split by paragraphs first.
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := EstimateTokens(para)

		// If a single paragraph exceeds the target, split it further.
		if paraTokens > targetTokens {
			// Flush current buffer.
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			// Split the large paragraph by sentences.
			subParts := splitBySentences(para, targetTokens, overlapTokens)
			result = append(result, subParts...)
			continue
		}

		// Would adding this paragraph exceed the target?
		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			// Start next chunk with overlap from end of current.
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitByParagraphs splits on double-newlines.
func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// getOverlapText extracts the last N tokens worth of text for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	// Approximate: 1.33 tokens per word.
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
