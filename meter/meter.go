// Package meter accumulates classification statistics over a stream of
// examples: per-label and global precision, recall and F1, and rank-based AUC
// for binary (sigmoid) labels.
package meter

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Mode selects how Log interprets an example.
type Mode int

const (
	// MultiLabel compares a set of gold labels against a list of predictions.
	MultiLabel Mode = iota
	// Sigmoid treats the example as one binary decision: gold holds a label id
	// and a 0/1 truth flag, and predictions are indexed by label id.
	Sigmoid
)

// String returns the flag name of the mode.
func (m Mode) String() string {
	switch m {
	case MultiLabel:
		return "multilabel"
	case Sigmoid:
		return "sigmoid"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as produced by String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multilabel":
		return MultiLabel, nil
	case "sigmoid":
		return Sigmoid, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Prediction is a scored label.
type Prediction struct {
	Score float32
	Label int32
}

type labelScore struct {
	score    float32
	positive bool
}

// Meter accumulates statistics one example at a time without retaining the
// examples themselves. Only sigmoid scores are kept, for AUC.
//
// A Meter is not safe for concurrent use; callers sharing one must serialize
// Log and any query made while logging continues.
type Meter struct {
	examples     int64
	metrics      Metrics
	labelMetrics map[int32]*Metrics
	labelScores  map[int32][]labelScore
	logger       *slog.Logger
}

// New creates an empty Meter.
func New(opts ...Option) *Meter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Meter{
		labelMetrics: make(map[int32]*Metrics),
		labelScores:  make(map[int32][]labelScore),
		logger:       cfg.logger,
	}
}

func (m *Meter) label(id int32) *Metrics {
	lm, ok := m.labelMetrics[id]
	if !ok {
		lm = &Metrics{}
		m.labelMetrics[id] = lm
		m.logger.Debug("meter tracking new label", "label", id)
	}
	return lm
}

// Log records one example. A malformed sigmoid example is rejected before
// any counter changes.
func (m *Meter) Log(gold []int32, predictions []Prediction, mode Mode) error {
	if mode == Sigmoid {
		return m.logSigmoid(gold, predictions)
	}

	m.examples++
	m.metrics.Gold += int64(len(gold))
	m.metrics.Predicted += int64(len(predictions))

	for _, p := range predictions {
		lm := m.label(p.Label)
		lm.Predicted++
		if slices.Contains(gold, p.Label) {
			lm.PredictedGold++
			m.metrics.PredictedGold++
		}
	}

	for _, g := range gold {
		m.label(g).Gold++
	}
	return nil
}

func (m *Meter) logSigmoid(gold []int32, predictions []Prediction) error {
	if len(gold) < 2 {
		return fmt.Errorf("%w: sigmoid example needs a label and a truth flag, got %d values", ErrMalformedExample, len(gold))
	}
	id, flag := gold[0], gold[1]
	if id < 0 || int(id) >= len(predictions) {
		return fmt.Errorf("%w: label %d has no prediction among %d", ErrMalformedExample, id, len(predictions))
	}
	if flag != 0 && flag != 1 {
		return fmt.Errorf("%w: truth flag %d is not 0 or 1", ErrMalformedExample, flag)
	}

	m.examples++
	m.labelScores[id] = append(m.labelScores[id], labelScore{
		score:    predictions[id].Score,
		positive: flag == 1,
	})
	lm := m.label(id)
	lm.Predicted++
	if flag == 1 {
		lm.Gold++
	}
	return nil
}

// Examples returns the number of logged examples.
func (m *Meter) Examples() int64 {
	return m.examples
}

// Global returns the aggregate multi-label counters.
func (m *Meter) Global() Metrics {
	return m.metrics
}

// Label returns the counters for one label; unseen labels are all zero.
func (m *Meter) Label(id int32) Metrics {
	if lm, ok := m.labelMetrics[id]; ok {
		return *lm
	}
	return Metrics{}
}

// Labels returns every label seen so far in ascending order.
func (m *Meter) Labels() []int32 {
	return slices.Sorted(maps.Keys(m.labelMetrics))
}

// Precision returns the global precision.
func (m *Meter) Precision() float64 { return m.metrics.Precision() }

// Recall returns the global recall.
func (m *Meter) Recall() float64 { return m.metrics.Recall() }

// LabelPrecision returns the precision of one label.
func (m *Meter) LabelPrecision(id int32) float64 { return m.Label(id).Precision() }

// LabelRecall returns the recall of one label.
func (m *Meter) LabelRecall(id int32) float64 { return m.Label(id).Recall() }

// LabelF1Score returns the F1 score of one label.
func (m *Meter) LabelF1Score(id int32) float64 { return m.Label(id).F1Score() }

// Positives returns the gold count of a label.
func (m *Meter) Positives(id int32) int64 {
	return m.Label(id).Gold
}

// Negatives returns predicted minus gold for a label, which in sigmoid mode
// is the number of examples whose truth flag was 0.
func (m *Meter) Negatives(id int32) int64 {
	lm := m.Label(id)
	return lm.Predicted - lm.Gold
}

// AUC returns the area under the ROC curve for a sigmoid label, computed as
// the normalized Mann-Whitney U statistic with tied scores given their mean
// rank. It returns ErrUndefinedAUC when the label has no positives or no
// negatives.
func (m *Meter) AUC(id int32) (float64, error) {
	pos, neg := m.Positives(id), m.Negatives(id)
	if pos == 0 || neg == 0 {
		return 0, fmt.Errorf("%w: label %d has %d positives and %d negatives", ErrUndefinedAUC, id, pos, neg)
	}

	scores := m.labelScores[id]
	slices.SortFunc(scores, func(a, b labelScore) int {
		return cmp.Compare(a.score, b.score)
	})

	var rankSum float64
	for i := 0; i < len(scores); {
		j := i + 1
		for j < len(scores) && scores[j].score == scores[i].score {
			j++
		}
		// Positions i..j-1 hold ranks i+1..j.
		rank := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			if scores[k].positive {
				rankSum += rank
			}
		}
		i = j
	}

	p, n := float64(pos), float64(neg)
	return (rankSum - p*(p+1)/2) / (p * n), nil
}

// WriteSummary writes the example count and global precision and recall at k
// as tab-separated lines.
func (m *Meter) WriteSummary(w io.Writer, k int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "N\t%d\n", m.examples)
	fmt.Fprintf(&b, "P@%d\t%.3f\n", k, m.Precision())
	fmt.Fprintf(&b, "R@%d\t%.3f\n", k, m.Recall())
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// WriteLabelSummary writes F1, precision and recall for every label seen, one
// tab-separated line per label. name renders label ids; nil prints the id.
func (m *Meter) WriteLabelSummary(w io.Writer, name func(int32) string) error {
	if name == nil {
		name = func(id int32) string { return fmt.Sprint(id) }
	}

	var b strings.Builder
	b.WriteString("F1-Score\tPrecision\tRecall\tLabel\n")
	for _, id := range m.Labels() {
		lm := m.Label(id)
		fmt.Fprintf(&b, "%.6f\t%.6f\t%.6f\t%s\n", lm.F1Score(), lm.Precision(), lm.Recall(), name(id))
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing label summary: %w", err)
	}
	return nil
}
