package bench

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-ftmeter/internal/record"
	"github.com/jamesainslie/go-ftmeter/meter"
)

// Config holds evaluation parameters.
type Config struct {
	Mode            meter.Mode
	K               int     // predictions kept per example in multi-label mode; <= 0 keeps all
	Threshold       float32 // minimum score kept in multi-label mode
	Workers         int     // shards read in parallel
	PrecisionWeight float64
	RecallWeight    float64
	Logger          *slog.Logger
}

// DefaultConfig returns default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		Mode:            meter.MultiLabel,
		K:               1,
		Threshold:       0,
		Workers:         1,
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

// WeightedScore combines precision and recall using the configured weights.
func (cfg Config) WeightedScore(m meter.Metrics) float64 {
	wp, wr := cfg.PrecisionWeight, cfg.RecallWeight
	if wp+wr <= 0 {
		return 0
	}
	return (wp*m.Precision() + wr*m.Recall()) / (wp + wr)
}

// Evaluate reads every record in paths and logs it into a new Meter. Each
// worker opens its own cursor over one shard; the shared Meter is guarded by
// a mutex.
func Evaluate(ctx context.Context, paths []string, cfg Config) (*meter.Meter, error) {
	logger := cfg.logger()
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	m := meter.New(meter.WithLogger(logger))
	var mu sync.Mutex

	logExample := func(ex record.Example) error {
		preds := ex.Predictions
		if cfg.Mode == meter.MultiLabel {
			preds = ex.Top(cfg.K, cfg.Threshold)
		}

		mu.Lock()
		err := m.Log(ex.Gold, preds, cfg.Mode)
		mu.Unlock()

		if errors.Is(err, meter.ErrMalformedExample) {
			logger.Warn("skipping example", "error", err)
			return nil
		}
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			stats, err := ReadShard(ctx, paths, i, workers, logger, logExample)
			if err != nil {
				return err
			}
			logger.Info("shard evaluated",
				"shard", stats.Shard,
				"lines", stats.Lines,
				"skipped", stats.Skipped,
				"bytes", stats.Bytes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return m, nil
}
