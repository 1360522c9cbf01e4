// Package glm fits regression models on frame columns and produces
// response-scale predictions. It covers gaussian least squares, binomial
// logistic regression and multinomial softmax regression, each with an
// outlier-resistant variant where one exists.
package glm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ashimb9/VIM/pkg/frame"
)

// ErrUnsupportedFamily reports an invalid family or an unsupported
// family/option combination (e.g. robust multinomial).
var ErrUnsupportedFamily = errors.New("unsupported model family")

// ErrFitFailed reports a failure of the underlying fitting routine, such as
// a singular design matrix or non-convergence.
var ErrFitFailed = errors.New("model fit failed")

// Family is the distribution/link assumption of a fit.
type Family int

const (
	Gaussian Family = iota
	Binomial
	Multinomial
)

func (f Family) String() string {
	switch f {
	case Gaussian:
		return "gaussian"
	case Binomial:
		return "binomial"
	case Multinomial:
		return "multinomial"
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// Valid reports whether f is a known family.
func (f Family) Valid() bool { return f >= Gaussian && f <= Multinomial }

// Config controls how a model is fit.
type Config struct {
	// Robust selects the outlier-resistant fitting variant. There is no
	// robust multinomial routine; requesting one fails with ErrUnsupportedFamily.
	Robust bool
	// Trace receives the multinomial fit's per-epoch progress. Nil discards it.
	Trace *slog.Logger
}

// Model is a fitted regression bound to one target variable, one predictor
// set and the row subset it was fit on. It is created fresh per target and
// not meant to be reused across variables.
type Model struct {
	Target string
	Family Family

	enc    *encoder
	coef   [][]float64 // per class: [intercept, slopes...]; one class except multinomial
	levels []string    // target level set for categorical families
}

// Levels returns the target's level set for categorical families, nil otherwise.
func (m *Model) Levels() []string { return m.levels }

// Fit fits a model of target on predictors over the given rows. The rows must
// be complete in every referenced column.
func Fit(f *frame.Frame, target string, predictors []string, rows []int, fam Family, cfg Config) (*Model, error) {
	if !fam.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFamily, fam)
	}
	if fam == Multinomial && cfg.Robust {
		return nil, fmt.Errorf("%w: no robust multinomial routine", ErrUnsupportedFamily)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to fit on", ErrFitFailed)
	}
	enc, err := newEncoder(f, predictors)
	if err != nil {
		return nil, err
	}
	X := enc.designMatrix(f, rows)

	m := &Model{Target: target, Family: fam, enc: enc}
	switch fam {
	case Gaussian:
		y, err := gaussianResponse(f, target, rows)
		if err != nil {
			return nil, err
		}
		beta, err := fitGaussian(X, y, cfg.Robust)
		if err != nil {
			return nil, err
		}
		m.coef = [][]float64{beta}
	case Binomial:
		y, levels, err := binomialResponse(f, target, rows)
		if err != nil {
			return nil, err
		}
		beta, err := fitBinomial(X, y, cfg.Robust)
		if err != nil {
			return nil, err
		}
		m.coef = [][]float64{beta}
		m.levels = levels
	case Multinomial:
		y, levels, err := multinomialResponse(f, target, rows)
		if err != nil {
			return nil, err
		}
		coef, err := fitMultinomial(X, y, len(levels), traceLogger(cfg.Trace))
		if err != nil {
			return nil, err
		}
		m.coef = coef
		m.levels = levels
	}
	return m, nil
}

func traceLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Predict returns response-scale predictions at the given rows: point
// predictions for gaussian models and the probability of the second target
// level for binomial models. Every referenced column, the target included,
// must be non-missing at those rows.
func (m *Model) Predict(f *frame.Frame, rows []int) ([]float64, error) {
	if m.Family == Multinomial {
		return nil, fmt.Errorf("%w: multinomial models predict per-class probabilities", ErrFitFailed)
	}
	if err := m.validateInput(f, rows); err != nil {
		return nil, err
	}
	X := m.enc.designMatrix(f, rows)
	eta := matVec(X, m.coef[0])
	if m.Family == Binomial {
		for i, v := range eta {
			eta[i] = sigmoid(v)
		}
	}
	return eta, nil
}

// PredictProba returns, for a multinomial model, one probability vector per
// row over the target's level set.
func (m *Model) PredictProba(f *frame.Frame, rows []int) ([][]float64, error) {
	if m.Family != Multinomial {
		return nil, fmt.Errorf("%w: %s models have no per-class probabilities", ErrFitFailed, m.Family)
	}
	if err := m.validateInput(f, rows); err != nil {
		return nil, err
	}
	X := m.enc.designMatrix(f, rows)
	out := make([][]float64, len(rows))
	scores := make([]float64, len(m.coef))
	for i := range rows {
		for k, beta := range m.coef {
			scores[k] = dotRow(X, i, beta)
		}
		out[i] = softmax(scores)
	}
	return out, nil
}

// validateInput enforces the backend contract that prediction input is
// complete in every referenced column, including the (ignored) target.
func (m *Model) validateInput(f *frame.Frame, rows []int) error {
	names := append([]string{m.Target}, m.enc.names()...)
	for _, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return fmt.Errorf("%w: no column %q in prediction input", ErrFitFailed, name)
		}
		for _, r := range rows {
			if c.IsMissing(r) {
				return fmt.Errorf("%w: column %q is missing at row %d of the prediction input", ErrFitFailed, name, r)
			}
		}
	}
	return nil
}

func gaussianResponse(f *frame.Frame, target string, rows []int) ([]float64, error) {
	col, ok := f.Column(target)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", ErrFitFailed, target)
	}
	num, ok := col.(*frame.NumericColumn)
	if !ok {
		return nil, fmt.Errorf("%w: gaussian family requires a numeric target, %q is not", ErrUnsupportedFamily, target)
	}
	y := make([]float64, len(rows))
	for i, r := range rows {
		y[i] = num.Values[r]
	}
	return y, nil
}

func binomialResponse(f *frame.Frame, target string, rows []int) ([]float64, []string, error) {
	col, ok := f.Column(target)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no column %q", ErrFitFailed, target)
	}
	switch c := col.(type) {
	case *frame.CategoricalColumn:
		if c.NumLevels() != 2 {
			return nil, nil, fmt.Errorf("%w: binomial family requires a two-level target, %q has %d levels",
				ErrUnsupportedFamily, target, c.NumLevels())
		}
		y := make([]float64, len(rows))
		for i, r := range rows {
			y[i] = float64(c.Codes[r])
		}
		return y, c.Levels(), nil
	case *frame.NumericColumn:
		y := make([]float64, len(rows))
		for i, r := range rows {
			v := c.Values[r]
			if v != 0 && v != 1 {
				return nil, nil, fmt.Errorf("%w: binomial family requires 0/1 values in numeric target %q",
					ErrUnsupportedFamily, target)
			}
			y[i] = v
		}
		return y, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: binomial family cannot use target %q", ErrUnsupportedFamily, target)
}

func multinomialResponse(f *frame.Frame, target string, rows []int) ([]int, []string, error) {
	col, ok := f.Column(target)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no column %q", ErrFitFailed, target)
	}
	c, ok := col.(*frame.CategoricalColumn)
	if !ok {
		return nil, nil, fmt.Errorf("%w: multinomial family requires a categorical target, %q is not",
			ErrUnsupportedFamily, target)
	}
	if c.NumLevels() < 2 {
		return nil, nil, fmt.Errorf("%w: multinomial family requires at least two levels in %q",
			ErrUnsupportedFamily, target)
	}
	y := make([]int, len(rows))
	for i, r := range rows {
		y[i] = c.Codes[r]
	}
	return y, c.Levels(), nil
}
