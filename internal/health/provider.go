// Package health reads cumulative activity statistics from a health data source.
package health

import (
	"context"
	"errors"
	"time"
)

// ErrNoData reports that the source holds no samples for the window or that no
// source is configured.
var ErrNoData = errors.New("health data unavailable")

// Provider answers the two cumulative-sum queries the dashboard needs. Both
// methods are read-only and may be called concurrently.
type Provider interface {
	FetchEnergyBurned(ctx context.Context, start time.Time, end time.Time) (float64, error)
	FetchStepCount(ctx context.Context, start time.Time, end time.Time) (float64, error)
}

// StaticProvider returns fixed values. The zero value reports ErrNoData for
// both metrics.
type StaticProvider struct {
	EnergyBurned    float64
	StepCount       float64
	EnergyBurnedErr error
	StepCountErr    error
	Available       bool
}

func (p StaticProvider) FetchEnergyBurned(ctx context.Context, _ time.Time, _ time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if p.EnergyBurnedErr != nil {
		return 0, p.EnergyBurnedErr
	}
	if !p.Available {
		return 0, ErrNoData
	}
	return p.EnergyBurned, nil
}

func (p StaticProvider) FetchStepCount(ctx context.Context, _ time.Time, _ time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if p.StepCountErr != nil {
		return 0, p.StepCountErr
	}
	if !p.Available {
		return 0, ErrNoData
	}
	return p.StepCount, nil
}
