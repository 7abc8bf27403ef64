package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TextOptions tunes console output.
type TextOptions struct {
	Color         bool // ANSI colours for section titles
	ShowUnchanged bool // list unchanged keys too
}

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

type textWriter struct {
	w     io.Writer
	color bool
	err   error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) title(color, format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if t.color {
		s = ansiBold + color + s + ansiReset
	}
	t.printf("\n%s\n", s)
}

func (t *textWriter) table(header []string, rows [][]string) {
	if t.err != nil {
		return
	}
	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\n", strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\n", strings.Join(r, "\t"))
	}
	t.err = tw.Flush()
}

// WriteText writes a console report.
func (d *Document) WriteText(w io.Writer, opts TextOptions) error {
	t := &textWriter{w: w, color: opts.Color}
	c := d.Comparison()
	s := d.Summary

	t.printf("Comparing %s (%d keys) -> %s (%d keys)\n",
		orUnnamed(c.OldSource), c.OldTotalKeys, orUnnamed(c.NewSource), c.NewTotalKeys)

	t.title(ansiCyan, "Summary")
	t.table([]string{"TYPE OF CHANGE", "QUANTITY", "SHARE"}, [][]string{
		{"Added keys", fmt.Sprint(s.Added), FormatShare(s.Added, s.TotalChanges)},
		{"Removed keys", fmt.Sprint(s.Removed), FormatShare(s.Removed, s.TotalChanges)},
		{"Changed keys", fmt.Sprint(s.Changed), FormatShare(s.Changed, s.TotalChanges)},
		{"Total changes", fmt.Sprint(s.TotalChanges), FormatShare(s.TotalChanges, s.TotalChanges)},
		{"Unchanged keys", fmt.Sprint(s.Unchanged), "-"},
	})

	if len(d.Added) > 0 {
		t.title(ansiGreen, "Added keys (%d)", len(d.Added))
		t.table([]string{"KEY NAME", "UL", "LL"}, rowCells(d.Added))
	}
	if len(d.Removed) > 0 {
		t.title(ansiRed, "Removed keys (%d)", len(d.Removed))
		t.table([]string{"KEY NAME", "UL", "LL"}, rowCells(d.Removed))
	}
	if len(d.Changes) > 0 {
		t.title(ansiYellow, "Changed keys (%d)", len(d.Changes))
		t.table(changeHeader, changeCells(d.Changes))
	}
	if opts.ShowUnchanged && len(c.Unchanged) > 0 {
		t.title(ansiCyan, "Unchanged keys (%d)", len(c.Unchanged))
		for _, p := range c.Unchanged {
			t.printf("  %s\n", p.Name())
		}
	}
	if len(d.Drift) > 0 {
		t.title(ansiCyan, "Drift")
		t.table(driftHeader, driftCells(d.Drift))
	}
	if !c.HasChanges() {
		t.printf("\nNo differences.\n")
	}
	return t.err
}

var (
	changeHeader = []string{"KEY NAME", "OLD UL", "OLD LL", "NEW UL", "NEW LL", "TYPE"}
	driftHeader  = []string{"METRIC", "COUNT", "MEAN", "MIN", "MAX", "STDDEV"}
)

func rowCells(rows []Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Name, r.Upper.String(), r.Lower.String()})
	}
	return out
}

func changeCells(changes []Change) [][]string {
	out := make([][]string, 0, len(changes))
	for _, ch := range changes {
		out = append(out, []string{
			ch.Name,
			ch.OldUpper.String(), ch.OldLower.String(),
			ch.NewUpper.String(), ch.NewLower.String(),
			ch.Type,
		})
	}
	return out
}

func driftCells(drift []Drift) [][]string {
	out := make([][]string, 0, len(drift))
	for _, d := range drift {
		out = append(out, []string{
			d.Metric,
			fmt.Sprint(d.Count),
			formatFloat(d.Mean), formatFloat(d.Min), formatFloat(d.Max), formatFloat(d.StdDev),
		})
	}
	return out
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
