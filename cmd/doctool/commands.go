package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docmodel/internal/doctree"
	"github.com/dgallion1/docmodel/internal/view"
	"github.com/spf13/cobra"
)

var errDifferent = errors.New("documents differ")

var (
	keepRefs     bool
	compareTitle bool
)

var tocCmd = &cobra.Command{
	Use:   "toc FILE",
	Short: "Print the table of contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		entries := view.TOC(doctree.BuildTOC(doc))
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		renderTOC(cmd.OutOrStdout(), doc.Title, entries)
		return nil
	},
}

var textCmd = &cobra.Command{
	Use:   "text FILE",
	Short: "Print the plain text, one block per paragraph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), view.Text(doc))
		return nil
	},
}

var refsCmd = &cobra.Command{
	Use:   "refs FILE",
	Short: "List section references and check them for problems",
	Long: `List every section with its reference, indented by nesting level, then
report empty or duplicate references. With --keep, only the references the
file itself declares are shown; otherwise missing ones are generated first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		load := loadDocument
		if keepRefs {
			load = parseDocument
		}
		doc, err := load(args[0])
		if err != nil {
			return err
		}
		lines := sectionLines(doc)
		problems := unjoin(doctree.ValidateReferences(doc))
		if jsonOutput {
			msgs := make([]string, 0, len(problems))
			for _, p := range problems {
				msgs = append(msgs, p.Error())
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"sections": lines, "problems": msgs})
		}
		renderRefs(cmd.OutOrStdout(), lines, problems)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary FILE",
	Short: "Count sections, figures, tables, links and words",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		s := view.Summarize(doc)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), s)
		}
		renderSummary(cmd.OutOrStdout(), s)
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff FILE1 FILE2",
	Short: "Report whether two files have the same structure",
	Long: `Compare two documents node by node, ignoring metadata. Titles default to
the file name, so they are only compared with --title. Exits non-zero when
the documents differ.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		b, err := loadDocument(args[1])
		if err != nil {
			return err
		}
		if !compareTitle {
			b.Title = a.Title
		}

		out := cmd.OutOrStdout()
		if doctree.EqualDocuments(a, b) {
			fmt.Fprintln(out, successStyle.Render("✓ documents are structurally equal"))
			return nil
		}
		fmt.Fprintln(out, errorStyle.Render("✗ "+describeDifference(a, b)))
		return errDifferent
	},
}

func init() {
	refsCmd.Flags().BoolVar(&keepRefs, "keep", false, "Show only references declared in the file")
	diffCmd.Flags().BoolVar(&compareTitle, "title", false, "Also compare document titles")

	rootCmd.AddCommand(tocCmd, textCmd, refsCmd, summaryCmd, diffCmd)
}

// sectionLines lists every section with its nesting level among sections.
func sectionLines(doc *doctree.Document) []refLine {
	var out []refLine
	var visit func(e doctree.Element, level int)
	visit = func(e doctree.Element, level int) {
		for _, c := range doctree.Children(e) {
			s, ok := c.(*doctree.Section)
			if !ok {
				visit(c, level)
				continue
			}
			title := ""
			if s.Title != nil {
				title = strings.TrimSpace(doctree.CollectText(s.Title))
			}
			out = append(out, refLine{Level: level, Reference: s.Reference, Title: title})
			visit(s, level+1)
		}
	}
	visit(doc, 0)
	return out
}

// describeDifference names the first differing part of two documents that
// EqualDocuments found unequal.
func describeDifference(a, b *doctree.Document) string {
	switch {
	case a.Title != b.Title:
		return fmt.Sprintf("titles differ: %q vs %q", a.Title, b.Title)
	case len(a.Children) != len(b.Children):
		return fmt.Sprintf("top-level node counts differ: %d vs %d", len(a.Children), len(b.Children))
	}
	for i := range a.Children {
		if !doctree.Equal(a.Children[i], b.Children[i]) {
			return fmt.Sprintf("top-level node %d differs (%s vs %s)", i+1, kindOf(a.Children[i]), kindOf(b.Children[i]))
		}
	}
	return "document properties differ"
}

func kindOf(n doctree.Node) string {
	if n == nil {
		return "nil"
	}
	return n.Kind().String()
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
