package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Bucket selects one list of a comparison for CSV export.
type Bucket string

const (
	BucketAdded     Bucket = "added"
	BucketRemoved   Bucket = "removed"
	BucketChanged   Bucket = "changed"
	BucketUnchanged Bucket = "unchanged"
)

// Buckets lists every bucket in report order.
var Buckets = []Bucket{BucketAdded, BucketRemoved, BucketChanged, BucketUnchanged}

// ParseBucket accepts a bucket name in any case.
func ParseBucket(s string) (Bucket, error) {
	b := Bucket(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Buckets {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// WriteCSV writes one bucket as CSV with a header row.
func (d *Document) WriteCSV(w io.Writer, b Bucket) error {
	cw := csv.NewWriter(w)

	var records [][]string
	switch b {
	case BucketAdded:
		records = append([][]string{{"Key Name", "Upper Limit", "Lower Limit"}}, rowCells(d.Added)...)
	case BucketRemoved:
		records = append([][]string{{"Key Name", "Upper Limit", "Lower Limit"}}, rowCells(d.Removed)...)
	case BucketChanged:
		records = append([][]string{{"Key Name", "Old Upper", "Old Lower", "New Upper", "New Lower", "Change Type"}}, changeCells(d.Changes)...)
	case BucketUnchanged:
		records = [][]string{{"Key Name", "Upper Limit", "Lower Limit"}}
		for _, p := range d.Comparison().Unchanged {
			upper, lower := boundsOf(p.New.Limit)
			records = append(records, []string{p.Name(), upper.String(), lower.String()})
		}
	default:
		return fmt.Errorf("unknown bucket %q", b)
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write %s csv: %w", b, err)
	}
	return nil
}
