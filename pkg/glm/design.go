package glm

import (
	"fmt"

	"github.com/ashimb9/VIM/pkg/frame"
)

// encoder turns predictor columns into design-matrix rows. Categorical
// predictors are one-hot encoded with the first level as reference; the level
// sets are frozen at fit time so prediction uses the same encoding.
type encoder struct {
	cols []encodedCol
}

type encodedCol struct {
	name   string
	levels []string // nil for a numeric predictor
}

func newEncoder(f *frame.Frame, predictors []string) (*encoder, error) {
	enc := &encoder{cols: make([]encodedCol, 0, len(predictors))}
	for _, name := range predictors {
		col, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: no predictor column %q", ErrFitFailed, name)
		}
		switch c := col.(type) {
		case *frame.NumericColumn:
			enc.cols = append(enc.cols, encodedCol{name: name})
		case *frame.CategoricalColumn:
			enc.cols = append(enc.cols, encodedCol{name: name, levels: c.Levels()})
		case *frame.BoolColumn:
			enc.cols = append(enc.cols, encodedCol{name: name, levels: []string{"false", "true"}})
		default:
			return nil, fmt.Errorf("%w: predictor %q has an unsupported column kind", ErrFitFailed, name)
		}
	}
	return enc, nil
}

func (e *encoder) names() []string {
	names := make([]string, len(e.cols))
	for i, c := range e.cols {
		names[i] = c.name
	}
	return names
}

// width is the number of design columns including the leading intercept.
func (e *encoder) width() int {
	w := 1
	for _, c := range e.cols {
		if c.levels == nil {
			w++
		} else {
			w += len(c.levels) - 1
		}
	}
	return w
}

// designMatrix builds one design row per requested frame row. The referenced
// cells must be non-missing.
func (e *encoder) designMatrix(f *frame.Frame, rows []int) [][]float64 {
	X := make([][]float64, len(rows))
	for i, r := range rows {
		row := make([]float64, 1, e.width())
		row[0] = 1 // intercept
		for _, ec := range e.cols {
			col, _ := f.Column(ec.name)
			switch c := col.(type) {
			case *frame.NumericColumn:
				row = append(row, c.Values[r])
			case *frame.CategoricalColumn:
				dummies := make([]float64, len(ec.levels)-1)
				if code := c.Codes[r]; code > 0 {
					dummies[code-1] = 1
				}
				row = append(row, dummies...)
			case *frame.BoolColumn:
				v := 0.0
				if c.Values[r] {
					v = 1
				}
				row = append(row, v)
			}
		}
		X[i] = row
	}
	return X
}

func dotRow(X [][]float64, i int, beta []float64) float64 {
	s := 0.0
	for j, v := range X[i] {
		s += beta[j] * v
	}
	return s
}

func matVec(X [][]float64, beta []float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = dotRow(X, i, beta)
	}
	return out
}
