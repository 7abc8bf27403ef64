// Package report renders a finished comparison for people and tools.
//
// A [Document] is built once from a core.Result and carries everything the
// renderers need: per-bucket counts with shares of the total change count,
// the upper/lower limit view of every changed key with its change type, and
// per-metric drift statistics. Renderers exist for console text, JSON,
// Markdown, HTML, an XLSX workbook and per-bucket CSV.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/limitdiff/internal/core"
	"github.com/JonMunkholm/limitdiff/internal/limits"
)

// Document is a comparison prepared for rendering.
type Document struct {
	Result  *core.Result `json:"result"`
	Summary Summary      `json:"summary"`
	Added   []Row        `json:"added"`
	Removed []Row        `json:"removed"`
	Changes []Change     `json:"changes"`
	Drift   []Drift      `json:"drift"`
}

// New prepares res for rendering.
func New(res *core.Result) (*Document, error) {
	c := res.Comparison
	drift, err := ComputeDrift(c)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Result:  res,
		Summary: Summarize(c),
		Added:   rowsOf(c.Added),
		Removed: rowsOf(c.Removed),
		Changes: make([]Change, 0, len(c.Changed)),
		Drift:   drift,
	}
	for _, p := range c.Changed {
		doc.Changes = append(doc.Changes, NewChange(p))
	}
	return doc, nil
}

// Comparison is shorthand for d.Result.Comparison.
func (d *Document) Comparison() *limits.Comparison {
	return d.Result.Comparison
}

// Title names the two tables being compared.
func (d *Document) Title() string {
	c := d.Comparison()
	return fmt.Sprintf("%s vs %s", orUnnamed(c.OldSource), orUnnamed(c.NewSource))
}

func orUnnamed(s string) string {
	if s == "" {
		return "(unnamed)"
	}
	return s
}

// Bound is an optional limit value.
type Bound struct {
	Value float64
	Set   bool
}

func (b Bound) String() string {
	if !b.Set {
		return "N/A"
	}
	return strconv.FormatFloat(b.Value, 'g', -1, 64)
}

// MarshalJSON writes null for an unset bound.
func (b Bound) MarshalJSON() ([]byte, error) {
	if !b.Set {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, b.Value, 'g', -1, 64), nil
}

// Equal reports whether both bounds are unset or hold the same value.
func (b Bound) Equal(o Bound) bool {
	if b.Set != o.Set {
		return false
	}
	return !b.Set || b.Value == o.Value
}

func boundsOf(l limits.Limit) (upper, lower Bound) {
	upper.Value, upper.Set = l.Upper()
	lower.Value, lower.Set = l.Lower()
	return upper, lower
}

// Row is the upper/lower view of one entry.
type Row struct {
	Name  string `json:"name"`
	Upper Bound  `json:"upper"`
	Lower Bound  `json:"lower"`
}

func rowsOf(entries []limits.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		r := Row{Name: e.Name}
		r.Upper, r.Lower = boundsOf(e.Limit)
		rows = append(rows, r)
	}
	return rows
}

// Change is the upper/lower view of a changed key.
type Change struct {
	Name     string `json:"name"`
	OldUpper Bound  `json:"oldUpper"`
	OldLower Bound  `json:"oldLower"`
	NewUpper Bound  `json:"newUpper"`
	NewLower Bound  `json:"newLower"`
	Type     string `json:"type"`
}

// Change types.
const (
	ChangeUpper = "Upper"
	ChangeLower = "Lower"
	ChangeOther = "Other"
)

// NewChange builds the view of a changed pair.
func NewChange(p limits.Pair) Change {
	ch := Change{Name: p.Name()}
	ch.OldUpper, ch.OldLower = boundsOf(p.Old.Limit)
	ch.NewUpper, ch.NewLower = boundsOf(p.New.Limit)
	ch.Type = ChangeType(ch)
	return ch
}

// ChangeType is "Upper", "Lower", "Upper + Lower", or "Other" when only
// metrics outside the upper/lower pair differ.
func ChangeType(ch Change) string {
	var parts []string
	if !ch.OldUpper.Equal(ch.NewUpper) {
		parts = append(parts, ChangeUpper)
	}
	if !ch.OldLower.Equal(ch.NewLower) {
		parts = append(parts, ChangeLower)
	}
	if len(parts) == 0 {
		return ChangeOther
	}
	return strings.Join(parts, " + ")
}

// Summary is the bucket count table with shares of the total change count.
type Summary struct {
	limits.Summary
	AddedPct   float64 `json:"addedPct"`
	RemovedPct float64 `json:"removedPct"`
	ChangedPct float64 `json:"changedPct"`
}

// Summarize counts c's buckets.
func Summarize(c *limits.Comparison) Summary {
	s := Summary{Summary: c.Summary()}
	s.AddedPct = Percent(s.Added, s.TotalChanges)
	s.RemovedPct = Percent(s.Removed, s.TotalChanges)
	s.ChangedPct = Percent(s.Changed, s.TotalChanges)
	return s
}

// Percent is n as a percentage of total; 0 when total is 0.
func Percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// FormatShare renders a share as "12.5%", or "0%" when n is zero.
func FormatShare(n, total int) string {
	if n == 0 || total == 0 {
		return "0%"
	}
	if n == total {
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", Percent(n, total))
}

// WriteJSON writes d as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	return writeJSON(w, d)
}
