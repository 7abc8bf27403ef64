package limits

import (
	"fmt"
	"slices"
	"strings"
)

// Options controls how a limit table is scanned.
type Options struct {
	// ParametricMarker is matched case-insensitively against every cell; the
	// first cell containing it fixes the parametric column.
	ParametricMarker string `json:"parametricMarker"`

	// MetricLabels is the ordered pool of labels (e.g. "min", "max")
	// recognised in the first cell of a metric row.
	MetricLabels []string `json:"metricLabels"`

	// IncludeMarkerColumn makes the marker's own column a data column.
	// Otherwise data columns start one past it.
	IncludeMarkerColumn bool `json:"includeMarkerColumn"`

	// NullTokens are exact cell values meaning "no value".
	NullTokens []string `json:"nullTokens"`

	// KeyRowMarker is matched case-insensitively against the first cell of
	// a row to mark it as the row of parametric names.
	KeyRowMarker string `json:"keyRowMarker"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ParametricMarker:    "parametric",
		MetricLabels:        []string{"min", "max", "avg"},
		IncludeMarkerColumn: false,
		NullTokens:          []string{"N/A", "NULL", "-", ""},
		KeyRowMarker:        "key",
	}
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	c := o
	c.MetricLabels = slices.Clone(o.MetricLabels)
	c.NullTokens = slices.Clone(o.NullTokens)
	return c
}

// Validate reports options that would make every cell match.
func (o Options) Validate() error {
	var errs []string
	if strings.TrimSpace(o.ParametricMarker) == "" {
		errs = append(errs, "parametric marker is empty")
	}
	if strings.TrimSpace(o.KeyRowMarker) == "" {
		errs = append(errs, "key row marker is empty")
	}
	for i, l := range o.MetricLabels {
		if strings.TrimSpace(l) == "" {
			errs = append(errs, fmt.Sprintf("metric label %d is empty", i+1))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(errs, "; "))
	}
	return nil
}

// isNull reports whether cell is one of the configured null tokens.
func (o Options) isNull(cell string) bool {
	return slices.Contains(o.NullTokens, cell)
}

// containsFold reports whether substr is within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
