// Package survey wraps a frame together with sampling-design metadata
// (weights, strata) and a provenance log of the calls that touched it.
package survey

import (
	"fmt"

	"github.com/ashimb9/VIM/pkg/frame"
)

// Design is a weighted survey design around a raw data frame. Operations that
// transform the contained frame work on it in place and record themselves in
// the call log; the design metadata is otherwise left untouched.
type Design struct {
	Frame   *frame.Frame
	Weights []float64
	Strata  []string
	Calls   []string
}

// NewDesign builds a design over f. Weights and strata may be nil; when given
// they must have one entry per frame row.
func NewDesign(f *frame.Frame, weights []float64, strata []string) (*Design, error) {
	if f == nil {
		return nil, fmt.Errorf("survey: nil frame")
	}
	if weights != nil && len(weights) != f.NumRows() {
		return nil, fmt.Errorf("survey: %d weights for %d rows", len(weights), f.NumRows())
	}
	if strata != nil && len(strata) != f.NumRows() {
		return nil, fmt.Errorf("survey: %d strata labels for %d rows", len(strata), f.NumRows())
	}
	return &Design{Frame: f, Weights: weights, Strata: strata}, nil
}

// RecordCall appends one provenance record.
func (d *Design) RecordCall(call string) {
	d.Calls = append(d.Calls, call)
}
