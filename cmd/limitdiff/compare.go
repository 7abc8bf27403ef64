package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JonMunkholm/limitdiff/internal/report"
	"github.com/JonMunkholm/limitdiff/internal/source"
)

// errDifferences is returned by compare --exit-code when the tables differ.
var errDifferences = errors.New("tables differ")

type compareFlags struct {
	format        string
	out           string
	bucket        string
	color         string
	showUnchanged bool
	sortByName    bool
	exitCode      bool
}

func newCompareCmd(pf *parseFlags) *cobra.Command {
	var cf compareFlags

	cmd := &cobra.Command{
		Use:   "compare OLD NEW",
		Short: "Compare two limit tables",
		Long: `Compare parses OLD and NEW with the same settings and reports added,
removed, changed and unchanged keys.

Example: limitdiff compare v1.csv v2.xlsx --format xlsx -o report.xlsx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, pf, &cf, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cf.format, "format", "f", "text", "report format: text, json, markdown, html, xlsx")
	f.StringVarP(&cf.out, "out", "o", "", "output file (default: stdout)")
	f.StringVar(&cf.bucket, "bucket", "", "write one bucket as CSV: added, removed, changed, unchanged")
	f.StringVar(&cf.color, "color", "auto", "colour text output: auto, always, never")
	f.BoolVar(&cf.showUnchanged, "show-unchanged", false, "list unchanged keys in text output")
	f.BoolVar(&cf.sortByName, "sort", false, "order keys by name instead of table order")
	f.BoolVar(&cf.exitCode, "exit-code", false, "exit with status 1 when the tables differ")

	return cmd
}

func runCompare(cmd *cobra.Command, pf *parseFlags, cf *compareFlags, oldPath, newPath string) error {
	cfg, err := loadConfig(cmd, pf, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(cf.format)
	if err != nil {
		return err
	}
	var bucket report.Bucket
	if cf.bucket != "" {
		if bucket, err = report.ParseBucket(cf.bucket); err != nil {
			return err
		}
	}

	oldSrc, err := source.Open(oldPath, cfg.Parse.Sheet)
	if err != nil {
		return err
	}
	newSrc, err := source.Open(newPath, cfg.Parse.Sheet)
	if err != nil {
		return err
	}

	res, err := newService(cfg).Compare(cmd.Context(), oldSrc, newSrc, cfg.Parse.Options())
	if err != nil {
		return err
	}
	if cf.sortByName {
		res.Comparison.SortByName()
	}
	doc, err := report.New(res)
	if err != nil {
		return err
	}

	err = writeOutput(cmd.OutOrStdout(), cf.out, func(w io.Writer, isTerm bool) error {
		if bucket != "" {
			return doc.WriteCSV(w, bucket)
		}
		return doc.Render(w, format, report.TextOptions{
			Color:         useColor(cf.color, isTerm),
			ShowUnchanged: cf.showUnchanged,
		})
	})
	if err != nil {
		return err
	}

	if cf.exitCode && res.Comparison.HasChanges() {
		return errDifferences
	}
	return nil
}

// writeOutput runs write against path, or against stdout when path is empty.
// isTerm reports whether the destination is an interactive terminal.
func writeOutput(stdout io.Writer, path string, write func(w io.Writer, isTerm bool) error) error {
	if path == "" {
		f, ok := stdout.(*os.File)
		return write(stdout, ok && term.IsTerminal(int(f.Fd())))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw, false); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}

func useColor(mode string, isTerm bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerm && os.Getenv("NO_COLOR") == ""
	}
}
