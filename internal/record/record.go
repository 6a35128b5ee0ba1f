// Package record parses prediction records, one per line:
//
//	gold<TAB>predictions
//
// gold is a space-separated list of label ids and predictions a
// space-separated list of label:score pairs. For sigmoid evaluation gold holds
// a label id and a 0/1 truth flag, and predictions are indexed by label id.
package record

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jamesainslie/go-ftmeter/meter"
)

// ErrSyntax indicates a line that is not a valid record.
var ErrSyntax = errors.New("record: syntax error")

// Example is one parsed record.
type Example struct {
	Gold        []int32
	Predictions []meter.Prediction
}

// Parse parses one record line. Trailing newlines are ignored.
func Parse(line string) (Example, error) {
	line = strings.TrimRight(line, "\r\n")
	goldField, predField, ok := strings.Cut(line, "\t")
	if !ok {
		return Example{}, fmt.Errorf("%w: missing tab separator", ErrSyntax)
	}

	var ex Example
	for _, tok := range strings.Fields(goldField) {
		id, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return Example{}, fmt.Errorf("%w: gold label %q", ErrSyntax, tok)
		}
		ex.Gold = append(ex.Gold, int32(id))
	}

	for _, tok := range strings.Fields(predField) {
		labelStr, scoreStr, ok := strings.Cut(tok, ":")
		if !ok {
			return Example{}, fmt.Errorf("%w: prediction %q is not label:score", ErrSyntax, tok)
		}
		id, err := strconv.ParseInt(labelStr, 10, 32)
		if err != nil {
			return Example{}, fmt.Errorf("%w: prediction label %q", ErrSyntax, labelStr)
		}
		score, err := strconv.ParseFloat(scoreStr, 32)
		if err != nil {
			return Example{}, fmt.Errorf("%w: prediction score %q", ErrSyntax, scoreStr)
		}
		ex.Predictions = append(ex.Predictions, meter.Prediction{Score: float32(score), Label: int32(id)})
	}

	return ex, nil
}

// Top returns at most k predictions scoring at least threshold, highest first.
// k <= 0 keeps every prediction above the threshold.
func (e Example) Top(k int, threshold float32) []meter.Prediction {
	top := make([]meter.Prediction, 0, len(e.Predictions))
	for _, p := range e.Predictions {
		if p.Score >= threshold {
			top = append(top, p)
		}
	}
	slices.SortStableFunc(top, func(a, b meter.Prediction) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	if k > 0 && len(top) > k {
		top = top[:k]
	}
	return top
}
