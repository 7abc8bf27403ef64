package report

import (
	"fmt"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/JonMunkholm/limitdiff/internal/limits"
)

// Drift summarises how one metric moved across the changed keys. Deltas are
// new minus old and only cover keys where the metric is set on both sides
// and differs.
type Drift struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stdDev"`
}

// ComputeDrift returns one Drift per metric that moved, sorted by metric.
func ComputeDrift(c *limits.Comparison) ([]Drift, error) {
	deltas := make(map[string][]float64)
	for _, p := range c.Changed {
		for metric, ov := range p.Old.Limit {
			nv, ok := p.New.Limit[metric]
			if !ok || nv == ov {
				continue
			}
			deltas[metric] = append(deltas[metric], nv-ov)
		}
	}

	metrics := make([]string, 0, len(deltas))
	for m := range deltas {
		metrics = append(metrics, m)
	}
	slices.Sort(metrics)

	out := make([]Drift, 0, len(metrics))
	for _, m := range metrics {
		d, err := describe(m, deltas[m])
		if err != nil {
			return nil, fmt.Errorf("drift of %s: %w", m, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func describe(metric string, data stats.Float64Data) (Drift, error) {
	d := Drift{Metric: metric, Count: data.Len()}

	var err error
	if d.Mean, err = stats.Mean(data); err != nil {
		return d, err
	}
	if d.Min, err = stats.Min(data); err != nil {
		return d, err
	}
	if d.Max, err = stats.Max(data); err != nil {
		return d, err
	}
	if d.StdDev, err = stats.StandardDeviation(data); err != nil {
		return d, err
	}
	return d, nil
}
