// Package pipeline cleans and enriches an app table in place.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/KaramelBytes/appscope-cli/internal/dataset"
	"go.uber.org/zap"
)

// Stage is one in-place transform over the table.
type Stage interface {
	Name() string
	Apply(ctx context.Context, t *dataset.Table) error
}

// StageFunc adapts a function to Stage.
type StageFunc struct {
	StageName string
	Fn        func(ctx context.Context, t *dataset.Table) error
}

func (s StageFunc) Name() string { return s.StageName }

func (s StageFunc) Apply(ctx context.Context, t *dataset.Table) error { return s.Fn(ctx, t) }

// Result collects what the default stages reported.
type Result struct {
	RowsIn  int
	RowsOut int
	Clean   CleanStats
}

// Default returns the clean then enrich stages, recording into res when non-nil.
func Default(res *Result) []Stage {
	return []Stage{
		StageFunc{StageName: "clean", Fn: func(_ context.Context, t *dataset.Table) error {
			st := Clean(t)
			if res != nil {
				res.Clean = st
			}
			return nil
		}},
		StageFunc{StageName: "enrich", Fn: func(_ context.Context, t *dataset.Table) error {
			return Enrich(t)
		}},
	}
}

// Run applies stages in order and stops at the first error.
func Run(ctx context.Context, t *dataset.Table, stages ...Stage) error {
	if t == nil {
		return fmt.Errorf("pipeline: nil table")
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline: %s: %w", s.Name(), err)
		}
		start := time.Now()
		before := t.Len()
		if err := s.Apply(ctx, t); err != nil {
			return fmt.Errorf("pipeline: %s: %w", s.Name(), err)
		}
		zap.L().Debug("pipeline: stage finished",
			zap.String("stage", s.Name()),
			zap.Int("rows_before", before),
			zap.Int("rows_after", t.Len()),
			zap.Duration("took", time.Since(start)),
		)
	}
	return nil
}

// Process runs the default stages and returns their summary.
func Process(ctx context.Context, t *dataset.Table) (*Result, error) {
	if t == nil {
		return nil, fmt.Errorf("pipeline: nil table")
	}
	res := &Result{RowsIn: t.Len()}
	if err := Run(ctx, t, Default(res)...); err != nil {
		return nil, err
	}
	res.RowsOut = t.Len()
	return res, nil
}
