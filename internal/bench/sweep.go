package bench

import (
	"context"
	"errors"
	"sort"

	"github.com/jamesainslie/go-ftmeter/meter"
)

// SweepResult holds metrics for one threshold value.
type SweepResult struct {
	Threshold     float32
	Metrics       meter.Metrics
	WeightedScore float64
}

// SweepThresholds generates threshold values from min up to, but excluding, max.
func SweepThresholds(min, max, step float32) []float32 {
	if step <= 0 {
		return nil
	}
	var thresholds []float32
	for i := 0; ; i++ {
		t := min + float32(i)*step
		if t >= max {
			break
		}
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep evaluates multi-label predictions at each threshold and returns
// results sorted by weighted score, best first.
func Sweep(ctx context.Context, paths []string, cfg Config, thresholds []float32) ([]SweepResult, error) {
	if cfg.Mode != meter.MultiLabel {
		return nil, errors.New("threshold sweep requires multi-label mode")
	}

	results := make([]SweepResult, 0, len(thresholds))
	for _, threshold := range thresholds {
		cfg.Threshold = threshold
		m, err := Evaluate(ctx, paths, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, SweepResult{
			Threshold:     threshold,
			Metrics:       m.Global(),
			WeightedScore: cfg.WeightedScore(m.Global()),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].WeightedScore > results[j].WeightedScore
	})

	return results, nil
}
