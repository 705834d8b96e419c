package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/docmodel/internal/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	refStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func renderTOC(w io.Writer, title string, entries []view.TOCEntry) {
	fmt.Fprintln(w, titleStyle.Render(title))
	var walk func(entries []view.TOCEntry, prefix string, depth int)
	walk = func(entries []view.TOCEntry, prefix string, depth int) {
		for i, e := range entries {
			num := fmt.Sprintf("%s%d.", prefix, i+1)
			fmt.Fprintf(w, "%s%s %s %s\n",
				strings.Repeat("  ", depth),
				dimStyle.Render(num),
				e.Title,
				refStyle.Render("#"+e.Reference),
			)
			walk(e.Children, num, depth+1)
		}
	}
	walk(entries, "", 0)
}

func renderSummary(w io.Writer, s view.Summary) {
	row := func(label string, n int) string {
		return fmt.Sprintf("%s %d", dimStyle.Render(fmt.Sprintf("%-9s", label+":")), n)
	}
	content := strings.Join([]string{
		titleStyle.Render(s.Title),
		row("Sections", s.Sections),
		row("Figures", s.Figures),
		row("Tables", s.Tables),
		row("Links", s.WebLinks),
		row("Words", s.Words),
	}, "\n")
	fmt.Fprintln(w, boxStyle.Render(content))
}

// refLine is one section in the reference listing.
type refLine struct {
	Level     int    `json:"level"`
	Reference string `json:"reference"`
	Title     string `json:"title"`
}

func renderRefs(w io.Writer, lines []refLine, problems []error) {
	for _, l := range lines {
		ref := l.Reference
		if ref == "" {
			ref = errorStyle.Render("(none)")
		} else {
			ref = refStyle.Render(ref)
		}
		fmt.Fprintf(w, "%s%s  %s\n", strings.Repeat("  ", l.Level), ref, l.Title)
	}
	for _, p := range problems {
		fmt.Fprintln(w, errorStyle.Render("✗ "+p.Error()))
	}
	if len(problems) == 0 {
		fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✓ %d references valid", len(lines))))
	}
}
