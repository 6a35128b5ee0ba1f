package meter

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a Meter's statistics as Prometheus metrics.
type Collector struct {
	meter *Meter
	mu    sync.Locker

	examples       *prometheus.Desc
	precision      *prometheus.Desc
	recall         *prometheus.Desc
	labelPrecision *prometheus.Desc
	labelRecall    *prometheus.Desc
	labelF1        *prometheus.Desc
	labelGold      *prometheus.Desc
	labelPredicted *prometheus.Desc
}

// NewCollector creates a collector reading m under mu. mu may be nil when
// nothing logs into m concurrently with collection.
func NewCollector(m *Meter, mu sync.Locker, namespace string) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "meter", n)
	}
	label := []string{"label"}

	return &Collector{
		meter: m,
		mu:    mu,

		examples:       prometheus.NewDesc(name("examples_total"), "Number of examples logged", nil, nil),
		precision:      prometheus.NewDesc(name("precision"), "Global precision", nil, nil),
		recall:         prometheus.NewDesc(name("recall"), "Global recall", nil, nil),
		labelPrecision: prometheus.NewDesc(name("label_precision"), "Per-label precision", label, nil),
		labelRecall:    prometheus.NewDesc(name("label_recall"), "Per-label recall", label, nil),
		labelF1:        prometheus.NewDesc(name("label_f1_score"), "Per-label F1 score", label, nil),
		labelGold:      prometheus.NewDesc(name("label_gold_total"), "Per-label gold count", label, nil),
		labelPredicted: prometheus.NewDesc(name("label_predicted_total"), "Per-label predicted count", label, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.examples
	ch <- c.precision
	ch <- c.recall
	ch <- c.labelPrecision
	ch <- c.labelRecall
	ch <- c.labelF1
	ch <- c.labelGold
	ch <- c.labelPredicted
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.mu != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}

	m := c.meter
	ch <- prometheus.MustNewConstMetric(c.examples, prometheus.CounterValue, float64(m.Examples()))
	ch <- prometheus.MustNewConstMetric(c.precision, prometheus.GaugeValue, m.Precision())
	ch <- prometheus.MustNewConstMetric(c.recall, prometheus.GaugeValue, m.Recall())

	for _, id := range m.Labels() {
		lm := m.Label(id)
		v := strconv.Itoa(int(id))
		ch <- prometheus.MustNewConstMetric(c.labelPrecision, prometheus.GaugeValue, lm.Precision(), v)
		ch <- prometheus.MustNewConstMetric(c.labelRecall, prometheus.GaugeValue, lm.Recall(), v)
		ch <- prometheus.MustNewConstMetric(c.labelF1, prometheus.GaugeValue, lm.F1Score(), v)
		ch <- prometheus.MustNewConstMetric(c.labelGold, prometheus.CounterValue, float64(lm.Gold), v)
		ch <- prometheus.MustNewConstMetric(c.labelPredicted, prometheus.CounterValue, float64(lm.Predicted), v)
	}
}
