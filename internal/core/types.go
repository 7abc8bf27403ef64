package core

import (
	"time"

	"github.com/JonMunkholm/limitdiff/internal/limits"
)

// Result is one finished comparison together with the options it ran under.
type Result struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Duration   time.Duration      `json:"durationNs"`
	Options    limits.Options     `json:"options"`
	Comparison *limits.Comparison `json:"comparison"`
}

// Summary is shorthand for r.Comparison.Summary().
func (r *Result) Summary() limits.Summary {
	return r.Comparison.Summary()
}

// Config tunes a Service.
type Config struct {
	MaxConcurrent int           // parallel comparisons; <= 0 uses the default
	MaxWait       time.Duration // wait for a free slot; <= 0 uses the default
	Timeout       time.Duration // per comparison; 0 disables
}
