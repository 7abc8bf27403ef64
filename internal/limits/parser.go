package limits

import (
	"errors"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// RowKind is the role of a row, decided by its first cell.
type RowKind int

const (
	RowUnclassified RowKind = iota
	RowKey
	RowMetric
)

func (k RowKind) String() string {
	switch k {
	case RowKey:
		return "key"
	case RowMetric:
		return "metric"
	default:
		return "unclassified"
	}
}

// RowClass is the result of classifying one row.
type RowClass struct {
	Kind   RowKind
	Metric string // set when Kind is RowMetric
}

// LabelPool holds the metric labels not yet matched in the current file.
// A label leaves the pool on its first match.
type LabelPool struct {
	labels []string
}

// NewLabelPool copies labels into a fresh pool.
func NewLabelPool(labels []string) *LabelPool {
	return &LabelPool{labels: slices.Clone(labels)}
}

// Remaining returns the labels still available, in configured order.
func (p *LabelPool) Remaining() []string {
	return slices.Clone(p.labels)
}

// take removes and returns the first label contained in cell.
func (p *LabelPool) take(cell string) (string, bool) {
	for i, label := range p.labels {
		if containsFold(cell, label) {
			p.labels = slices.Delete(p.labels, i, i+1)
			return label, true
		}
	}
	return "", false
}

// ClassifyRow decides the role of a row from its first cell. A key-row match
// wins over metric labels; a metric match consumes the label from pool.
func ClassifyRow(first, keyRowMarker string, pool *LabelPool) RowClass {
	if containsFold(first, keyRowMarker) {
		return RowClass{Kind: RowKey}
	}
	if label, ok := pool.take(first); ok {
		return RowClass{Kind: RowMetric, Metric: label}
	}
	return RowClass{Kind: RowUnclassified}
}

var errNotFinite = errors.New("limit must be a finite number")

// parser carries the state of a single Parse call.
type parser struct {
	opts      Options
	pool      *LabelPool
	markerAt  int
	dataStart int
	entries   map[int]*Entry
	total     int
}

// Parse scans rows and extracts the parametric entries they describe.
//
// Rows may have different lengths. Scanning is skipped until some cell
// contains the parametric marker; from then on each row is classified by its
// first cell and its cells at or after the data start column are read as
// names (key rows) or limits (metric rows). opts is not modified.
func Parse(rows [][]string, opts Options) (*RecordSet, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := &parser{
		opts:     opts.Clone(),
		pool:     NewLabelPool(opts.MetricLabels),
		markerAt: -1,
		entries:  make(map[int]*Entry),
	}

	for r, row := range rows {
		if err := p.scanRow(r, row); err != nil {
			return nil, err
		}
	}

	return p.recordSet(), nil
}

func (p *parser) scanRow(r int, row []string) error {
	class := RowClass{Kind: RowUnclassified}

	for c, cell := range row {
		if p.markerAt < 0 && containsFold(cell, p.opts.ParametricMarker) {
			p.markerAt = c
			p.dataStart = c + 1
			if p.opts.IncludeMarkerColumn {
				p.dataStart = c
			}
		}
		if p.markerAt < 0 {
			continue
		}

		if c == 0 {
			class = ClassifyRow(cell, p.opts.KeyRowMarker, p.pool)
			continue
		}
		if c < p.dataStart {
			continue
		}

		switch class.Kind {
		case RowKey:
			p.entries[c] = &Entry{Name: cell, Limit: Limit{}}
			p.total++
		case RowMetric:
			if err := p.setLimit(r, c, class.Metric, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) setLimit(r, c int, metric, cell string) error {
	e, ok := p.entries[c]
	if !ok || p.opts.isNull(cell) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errNotFinite
	}
	if err != nil {
		return &InvalidValueError{Row: r + 1, Column: c + 1, Metric: metric, Text: cell, Err: err}
	}
	e.Limit[metric] = v
	return nil
}

func (p *parser) recordSet() *RecordSet {
	cols := make([]int, 0, len(p.entries))
	for c := range p.entries {
		cols = append(cols, c)
	}
	sort.Ints(cols)

	rs := &RecordSet{
		ParametricColumn: p.markerAt,
		TotalKeys:        p.total,
		Entries:          make([]Entry, 0, len(cols)),
	}
	for _, c := range cols {
		rs.Entries = append(rs.Entries, *p.entries[c])
	}
	return rs
}
