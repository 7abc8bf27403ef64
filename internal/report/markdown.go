package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var mdEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func mdCell(s string) string {
	return mdEscaper.Replace(s)
}

func mdTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = mdCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

// Markdown renders d as a Markdown document.
func (d *Document) Markdown() string {
	var b strings.Builder
	c := d.Comparison()
	s := d.Summary

	fmt.Fprintf(&b, "# Limit comparison: %s\n\n", mdCell(d.Title()))
	if res := d.Result; res.ID != "" {
		fmt.Fprintf(&b, "Comparison `%s`, %s\n\n", res.ID, res.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}

	mdTable(&b, []string{"SW Version", "Total keys"}, [][]string{
		{orUnnamed(c.OldSource), fmt.Sprint(c.OldTotalKeys)},
		{orUnnamed(c.NewSource), fmt.Sprint(c.NewTotalKeys)},
	})

	b.WriteString("## Summary\n\n")
	mdTable(&b, []string{"Type of change", "Quantity", "Share"}, [][]string{
		{"Added keys", fmt.Sprint(s.Added), FormatShare(s.Added, s.TotalChanges)},
		{"Removed keys", fmt.Sprint(s.Removed), FormatShare(s.Removed, s.TotalChanges)},
		{"Changed keys", fmt.Sprint(s.Changed), FormatShare(s.Changed, s.TotalChanges)},
		{"Total changes", fmt.Sprint(s.TotalChanges), FormatShare(s.TotalChanges, s.TotalChanges)},
		{"Unchanged keys", fmt.Sprint(s.Unchanged), "-"},
	})

	if len(d.Added) > 0 {
		fmt.Fprintf(&b, "## Added keys (%d)\n\n", len(d.Added))
		mdTable(&b, []string{"Key Name", "UL", "LL"}, rowCells(d.Added))
	}
	if len(d.Removed) > 0 {
		fmt.Fprintf(&b, "## Removed keys (%d)\n\n", len(d.Removed))
		mdTable(&b, []string{"Key Name", "UL", "LL"}, rowCells(d.Removed))
	}
	if len(d.Changes) > 0 {
		fmt.Fprintf(&b, "## Changed keys (%d)\n\n", len(d.Changes))
		mdTable(&b, []string{"Key Name", "Old UL", "Old LL", "New UL", "New LL", "Type"}, changeCells(d.Changes))
	}
	if len(d.Drift) > 0 {
		b.WriteString("## Drift\n\n")
		mdTable(&b, []string{"Metric", "Count", "Mean", "Min", "Max", "StdDev"}, driftCells(d.Drift))
	}
	if !c.HasChanges() {
		b.WriteString("No differences.\n")
	}
	return b.String()
}

// WriteMarkdown writes d as Markdown.
func (d *Document) WriteMarkdown(w io.Writer) error {
	_, err := io.WriteString(w, d.Markdown())
	return err
}

// WriteHTML writes d as a standalone HTML page rendered from its Markdown.
func (d *Document) WriteHTML(w io.Writer) error {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Limit comparison: " + d.Title(),
		Head:  []byte(htmlHead),
	})

	out := markdown.ToHTML([]byte(d.Markdown()), p, renderer)
	_, err := io.Copy(w, bytes.NewReader(out))
	return err
}

const htmlHead = `<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #999; padding: 0.25em 0.75em; }
th { background: #1F4E78; color: #fff; }
</style>
`
