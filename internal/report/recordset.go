package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/JonMunkholm/limitdiff/internal/limits"
)

// WriteRecordSet writes one parsed table as text or JSON.
func WriteRecordSet(w io.Writer, rs *limits.RecordSet, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, rs)
	case FormatText:
	default:
		return fmt.Errorf("unknown report format %q for a record set", f)
	}

	t := &textWriter{w: w}
	t.printf("Source:            %s\n", orUnnamed(rs.Source))
	t.printf("Parametric column: %s\n", columnName(rs.ParametricColumn))
	t.printf("Total keys:        %d\n", rs.TotalKeys)
	t.printf("Entries:           %d\n", len(rs.Entries))
	if len(rs.Entries) == 0 {
		return t.err
	}

	metrics := metricColumns(rs.Entries)
	rows := make([][]string, 0, len(rs.Entries))
	for _, e := range rs.Entries {
		row := []string{e.Name}
		for _, m := range metrics {
			cell := "-"
			if v, ok := e.Limit[m]; ok {
				cell = strconv.FormatFloat(v, 'g', -1, 64)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	t.printf("\n")
	t.table(append([]string{"Key Name"}, metrics...), rows)
	return t.err
}

// metricColumns is the sorted union of metric names over entries.
func metricColumns(entries []limits.Entry) []string {
	var out []string
	for _, e := range entries {
		for _, k := range e.Limit.Keys() {
			if !slices.Contains(out, k) {
				out = append(out, k)
			}
		}
	}
	slices.Sort(out)
	return out
}

// columnName renders a 0-based column index as a spreadsheet letter.
func columnName(idx int) string {
	if idx < 0 {
		return "not found"
	}
	name := ""
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return fmt.Sprintf("%s (%d)", name, idx+1)
}
