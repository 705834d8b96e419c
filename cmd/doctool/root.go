package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/docmodel/internal/version"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	noPdftotext bool
	jsonOutput  bool

	log = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "doctool",
	Short: "Inspect the structure of documents",
	Long: `doctool reads Markdown, HTML, DOCX, PDF, CSV and plain text files into a
document tree and reports on it: the table of contents, the plain text, the
section references, a structural summary, or whether two files differ.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("doctool %s\n", version.String()))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&noPdftotext, "no-pdftotext", false, "Do not fall back to pdftotext for PDFs")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of styled text")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes rootCmd with args, writing to out. Used by tests.
func run(out io.Writer, args ...string) error {
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
