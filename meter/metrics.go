package meter

// Metrics counts gold labels, predicted labels and predictions that matched
// a gold label. Ratios over a zero count are reported as 0.
type Metrics struct {
	Gold          int64
	Predicted     int64
	PredictedGold int64
}

// Precision returns PredictedGold / Predicted.
func (m Metrics) Precision() float64 {
	if m.Predicted == 0 {
		return 0
	}
	return float64(m.PredictedGold) / float64(m.Predicted)
}

// Recall returns PredictedGold / Gold.
func (m Metrics) Recall() float64 {
	if m.Gold == 0 {
		return 0
	}
	return float64(m.PredictedGold) / float64(m.Gold)
}

// F1Score returns the harmonic mean of precision and recall.
func (m Metrics) F1Score() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
