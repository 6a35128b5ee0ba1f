package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jamesainslie/go-ftmeter/internal/bench"
	"github.com/jamesainslie/go-ftmeter/internal/runlog"
	"github.com/jamesainslie/go-ftmeter/meter"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		k           = flag.Int("k", 1, "Predictions kept per example (multi-label mode, <= 0 keeps all)")
		threshold   = flag.Float64("threshold", 0, "Minimum prediction score (multi-label mode)")
		modeName    = flag.String("mode", "multilabel", "Mode: multilabel or sigmoid")
		workers     = flag.Int("workers", 1, "Shards evaluated in parallel")
		labels      = flag.Bool("labels", false, "Print per-label F1, precision and recall")
		wp          = flag.Float64("wp", 1.0, "Precision weight for sweep ranking")
		wr          = flag.Float64("wr", 1.0, "Recall weight for sweep ranking")
		sweep       = flag.Bool("sweep", false, "Run threshold sweep")
		sweepMin    = flag.Float64("sweep-min", 0.0, "Sweep minimum threshold")
		sweepMax    = flag.Float64("sweep-max", 1.0, "Sweep maximum threshold")
		sweepStep   = flag.Float64("sweep-step", 0.05, "Sweep step size")
		textfile    = flag.String("textfile", "", "Write Prometheus metrics to this file")
		verbose     = flag.Bool("v", false, "Debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("ft-meter %s (%s, %s)\n", version, commit, date)
		return
	}

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ft-meter [OPTIONS] PREDICTIONS...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	mode, err := meter.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := bench.Config{
		Mode:            mode,
		K:               *k,
		Threshold:       float32(*threshold),
		Workers:         *workers,
		PrecisionWeight: *wp,
		RecallWeight:    *wr,
		Logger:          runlog.New(os.Stderr, "ft-meter", *verbose),
	}

	ctx := context.Background()

	if *sweep {
		runSweep(ctx, paths, cfg, float32(*sweepMin), float32(*sweepMax), float32(*sweepStep))
		return
	}
	runSingle(ctx, paths, cfg, *labels, *textfile)
}

func runSingle(ctx context.Context, paths []string, cfg bench.Config, labels bool, textfile string) {
	m, err := bench.Evaluate(ctx, paths, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error evaluating: %v\n", err)
		os.Exit(1)
	}

	if err := m.WriteSummary(os.Stdout, cfg.K); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Mode == meter.Sigmoid {
		printAUC(m)
	}

	if labels {
		fmt.Println()
		if err := m.WriteLabelSummary(os.Stdout, nil); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if textfile != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(meter.NewCollector(m, nil, "ftmeter"))
		if err := prometheus.WriteToTextfile(textfile, reg); err != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", textfile, err)
			os.Exit(1)
		}
	}
}

func printAUC(m *meter.Meter) {
	for _, id := range m.Labels() {
		auc, err := m.AUC(id)
		if errors.Is(err, meter.ErrUndefinedAUC) {
			fmt.Printf("AUC[%d]\tn/a\n", id)
			continue
		}
		fmt.Printf("AUC[%d]\t%.3f\n", id, auc)
	}
}

func runSweep(ctx context.Context, paths []string, cfg bench.Config, min, max, step float32) {
	thresholds := bench.SweepThresholds(min, max, step)

	fmt.Printf("Threshold Sweep Results (k=%d, wp=%.1f, wr=%.1f)\n", cfg.K, cfg.PrecisionWeight, cfg.RecallWeight)
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("%-8s %-8s %-8s %-8s %-8s\n", "Thresh", "Prec", "Rec", "F1", "Weighted")

	results, err := bench.Sweep(ctx, paths, cfg, thresholds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during sweep: %v\n", err)
		os.Exit(1)
	}

	// Print sorted by threshold for readability
	for _, t := range thresholds {
		for _, r := range results {
			if r.Threshold == t {
				fmt.Printf("%-8.3f %-8.3f %-8.3f %-8.3f %-8.3f\n",
					r.Threshold, r.Metrics.Precision(), r.Metrics.Recall(), r.Metrics.F1Score(), r.WeightedScore)
				break
			}
		}
	}

	fmt.Println(strings.Repeat("-", 50))
	if len(results) > 0 {
		best := results[0]
		fmt.Printf("Optimal: %.3f (Weighted: %.3f)\n", best.Threshold, best.WeightedScore)
	}
}
