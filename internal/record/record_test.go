package record

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jamesainslie/go-ftmeter/meter"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Example
		wantErr bool
	}{
		{
			name:  "multi label",
			input: "1 3\t1:0.9 2:0.05\n",
			want: Example{
				Gold:        []int32{1, 3},
				Predictions: []meter.Prediction{{Score: 0.9, Label: 1}, {Score: 0.05, Label: 2}},
			},
		},
		{
			name:  "no predictions",
			input: "4\t",
			want:  Example{Gold: []int32{4}},
		},
		{
			name:  "no gold",
			input: "\t0:0.5\r\n",
			want:  Example{Predictions: []meter.Prediction{{Score: 0.5, Label: 0}}},
		},
		{name: "missing tab", input: "1 2 3", wantErr: true},
		{name: "bad gold", input: "x\t1:0.5", wantErr: true},
		{name: "bad pair", input: "1\t1-0.5", wantErr: true},
		{name: "bad score", input: "1\t1:high", wantErr: true},
		{name: "bad prediction label", input: "1\tl:0.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrSyntax) {
					t.Errorf("Parse() error = %v, want ErrSyntax", err)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExample_Top(t *testing.T) {
	ex := Example{Predictions: []meter.Prediction{
		{Score: 0.1, Label: 1},
		{Score: 0.7, Label: 2},
		{Score: 0.3, Label: 3},
		{Score: 0.7, Label: 4},
	}}

	tests := []struct {
		name      string
		k         int
		threshold float32
		want      []meter.Prediction
	}{
		{
			name: "top 2",
			k:    2,
			want: []meter.Prediction{{Score: 0.7, Label: 2}, {Score: 0.7, Label: 4}},
		},
		{
			name:      "threshold",
			threshold: 0.2,
			want:      []meter.Prediction{{Score: 0.7, Label: 2}, {Score: 0.7, Label: 4}, {Score: 0.3, Label: 3}},
		},
		{
			name:      "nothing above threshold",
			k:         1,
			threshold: 0.9,
			want:      []meter.Prediction{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ex.Top(tt.k, tt.threshold)); diff != "" {
				t.Errorf("Top() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
