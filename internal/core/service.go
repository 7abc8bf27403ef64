package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/limitdiff/internal/limits"
	"github.com/JonMunkholm/limitdiff/internal/logging"
	"github.com/JonMunkholm/limitdiff/internal/source"
)

// Service runs parses and comparisons under a shared concurrency limit.
// It holds no per-comparison state and is safe for concurrent use.
type Service struct {
	limiter *CompareLimiter
	timeout time.Duration
	now     func() time.Time
}

// NewService creates a Service from cfg.
func NewService(cfg Config) *Service {
	return &Service{
		limiter: NewCompareLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		timeout: cfg.Timeout,
		now:     time.Now,
	}
}

// Limiter exposes the concurrency limiter for status reporting and drain.
func (s *Service) Limiter() *CompareLimiter {
	return s.limiter
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// ParseSource reads src and parses it into a RecordSet named after the source.
func (s *Service) ParseSource(ctx context.Context, src source.Source, opts limits.Options) (*limits.RecordSet, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return parseSource(ctx, src, opts)
}

func parseSource(ctx context.Context, src source.Source, opts limits.Options) (*limits.RecordSet, error) {
	start := time.Now()

	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rs, err := limits.Parse(rows, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Name(), err)
	}
	rs.Source = src.Name()

	logging.FromContext(ctx).Debug("source parsed",
		"source", rs.Source,
		"rows", len(rows),
		"total_keys", rs.TotalKeys,
		"entries", len(rs.Entries),
		"duration", time.Since(start),
	)
	return rs, nil
}

// Compare parses oldSrc and newSrc concurrently with the same options and
// compares the results. The first failure cancels the other parse.
func (s *Service) Compare(ctx context.Context, oldSrc, newSrc source.Source, opts limits.Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id := uuid.New().String()
	logger := logging.WithFields(ctx, append([]any{"comparison_id", id}, clientAttrs(ctx)...)...)
	start := s.now()

	var oldSet, newSet *limits.RecordSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := parseSource(gctx, oldSrc, opts.Clone())
		if err != nil {
			return fmt.Errorf("old table: %w", err)
		}
		oldSet = rs
		return nil
	})
	g.Go(func() error {
		rs, err := parseSource(gctx, newSrc, opts.Clone())
		if err != nil {
			return fmt.Errorf("new table: %w", err)
		}
		newSet = rs
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("comparison failed", "error", err)
		return nil, err
	}

	cmp := limits.Compare(oldSet, newSet)
	result := &Result{
		ID:         id,
		CreatedAt:  start.UTC(),
		Duration:   s.now().Sub(start),
		Options:    opts.Clone(),
		Comparison: cmp,
	}

	sum := cmp.Summary()
	logger.Info("comparison complete",
		"old", cmp.OldSource,
		"new", cmp.NewSource,
		"added", sum.Added,
		"removed", sum.Removed,
		"changed", sum.Changed,
		"unchanged", sum.Unchanged,
		"duration", result.Duration,
	)
	return result, nil
}
