package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgallion1/outlinemd/internal/clipboard"
	"github.com/dgallion1/outlinemd/internal/editor"
	"github.com/dgallion1/outlinemd/internal/parser"
	"github.com/dgallion1/outlinemd/internal/preview"
)

var (
	copyOutput bool
	htmlOutput bool
	quiet      bool
	pdftotext  bool
)

var (
	noticeColor = color.New(color.FgGreen, color.Bold)
	errorColor  = color.New(color.FgRed, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:   "outlinemd [file]",
	Short: "Convert numbered plain-text outlines to markdown",
	Long: `outlinemd reformats plain text with numbered headings into markdown.

The first line becomes a bold title, main headings (1. Title) become bold,
sub-headings (1.1, 2.2) and prose are kept as written with a blank line
before them. Email addresses, URLs and bare domains become links.

Input is read from the named file (.txt, .md, .html, .docx, .pdf) or from
stdin when no file is given.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVarP(&copyOutput, "copy", "c", false, "copy the markdown to the system clipboard")
	rootCmd.Flags().BoolVar(&htmlOutput, "html", false, "print rendered HTML instead of markdown")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress success notices on stderr")
	rootCmd.Flags().BoolVar(&pdftotext, "pdftotext", true, "fall back to pdftotext for PDFs the built-in reader cannot handle")
}

func run(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		return err
	}

	sess := editor.New(log)
	if n, err := sess.SetInput(text); err != nil {
		printNotice(cmd.ErrOrStderr(), n)
		return err
	}

	out := sess.Output
	if htmlOutput {
		if out, err = preview.Render(sess.Output); err != nil {
			printError(cmd.ErrOrStderr(), err)
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if copyOutput {
		n, err := sess.Copy(clipboard.NewSystem())
		printNotice(cmd.ErrOrStderr(), n)
		if err != nil {
			return err
		}
	}
	return nil
}

// readInput returns the outline text from the named file, or from stdin
// when no file is given.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	path := args[0]
	p, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: pdftotext})
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := p.Parse(bytes.NewReader(data), path)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	return text, nil
}

func printNotice(w io.Writer, n editor.Notice) {
	if n.IsZero() || (quiet && n.Variant != editor.VariantDestructive) {
		return
	}
	c := noticeColor
	if n.Variant == editor.VariantDestructive {
		c = errorColor
	}
	c.Fprint(w, n.Title)
	fmt.Fprintf(w, " %s\n", n.Description)
}

func printError(w io.Writer, err error) {
	errorColor.Fprint(w, "Error")
	fmt.Fprintf(w, " %v\n", err)
}
