package glm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashimb9/VIM/pkg/frame"
	"github.com/ashimb9/VIM/pkg/glm"
)

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// Noiseless linear data should be recovered exactly by least squares.
func TestFitGaussianExactRecovery(t *testing.T) {
	n := 12
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = float64(i)
		x2[i] = float64(i*i) / 10
		y[i] = 2 + 3*x1[i] - 0.5*x2[i]
	}
	f, err := frame.New(
		frame.NewNumeric("y", y),
		frame.NewNumeric("x1", x1),
		frame.NewNumeric("x2", x2),
	)
	require.NoError(t, err)

	m, err := glm.Fit(f, "y", []string{"x1", "x2"}, allRows(n), glm.Gaussian, glm.Config{})
	require.NoError(t, err)

	preds, err := m.Predict(f, allRows(n))
	require.NoError(t, err)
	for i := range preds {
		assert.InDelta(t, y[i], preds[i], 1e-8)
	}
}

func TestFitGaussianSingularDesign(t *testing.T) {
	n := 8
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = 1 + 2*x[i]
	}
	f, err := frame.New(
		frame.NewNumeric("y", y),
		frame.NewNumeric("x", x),
		frame.NewNumeric("xdup", append([]float64(nil), x...)),
	)
	require.NoError(t, err)

	_, err = glm.Fit(f, "y", []string{"x", "xdup"}, allRows(n), glm.Gaussian, glm.Config{})
	require.ErrorIs(t, err, glm.ErrFitFailed)
}

// A gross outlier should barely move the robust fit while dragging the
// ordinary one.
func TestFitGaussianRobustResistsOutlier(t *testing.T) {
	n := 11
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = x[i] // true line: y = x
	}
	y[n-1] = 100 // gross outlier at x = 10
	f, err := frame.New(
		frame.NewNumeric("y", y),
		frame.NewNumeric("x", x),
	)
	require.NoError(t, err)

	probe, err := frame.New(
		frame.NewNumeric("y", []float64{0, 0}),
		frame.NewNumeric("x", []float64{0, 8}),
	)
	require.NoError(t, err)

	ols, err := glm.Fit(f, "y", []string{"x"}, allRows(n), glm.Gaussian, glm.Config{})
	require.NoError(t, err)
	robust, err := glm.Fit(f, "y", []string{"x"}, allRows(n), glm.Gaussian, glm.Config{Robust: true})
	require.NoError(t, err)

	olsPred, err := ols.Predict(probe, []int{0, 1})
	require.NoError(t, err)
	robustPred, err := robust.Predict(probe, []int{0, 1})
	require.NoError(t, err)

	olsSlope := (olsPred[1] - olsPred[0]) / 8
	robustSlope := (robustPred[1] - robustPred[0]) / 8
	assert.InDelta(t, 1.0, robustSlope, 0.3)
	assert.Greater(t, math.Abs(olsSlope-1), math.Abs(robustSlope-1))
}

func TestFitBinomialDirection(t *testing.T) {
	x := []float64{-4, -3.5, -3, -2.5, -2, -1.5, -1, 1, 1.5, 2, 2.5, 3, 3.5, 4, -0.5, 0.5}
	labels := make([]string, len(x))
	for i, v := range x {
		if v > 0 {
			labels[i] = "yes"
		} else {
			labels[i] = "no"
		}
	}
	// Two overlap points keep the classes from being perfectly separable.
	labels[14] = "yes"
	labels[15] = "no"
	f, err := frame.New(
		frame.NewCategorical("b", labels),
		frame.NewNumeric("x", x),
	)
	require.NoError(t, err)

	m, err := glm.Fit(f, "b", []string{"x"}, allRows(len(x)), glm.Binomial, glm.Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"no", "yes"}, m.Levels())

	probe, err := frame.New(
		frame.NewCategorical("b", []string{"no", "no"}),
		frame.NewNumeric("x", []float64{-4, 4}),
	)
	require.NoError(t, err)
	probs, err := m.Predict(probe, []int{0, 1})
	require.NoError(t, err)
	// P("yes") must be low far on the "no" side and high on the "yes" side.
	assert.Less(t, probs[0], 0.2)
	assert.Greater(t, probs[1], 0.8)
}

func TestFitMultinomialSeparatedClasses(t *testing.T) {
	var x []float64
	var labels []string
	centers := map[string]float64{"low": -5, "mid": 0, "high": 5}
	for _, name := range []string{"low", "mid", "high"} {
		for d := -1.0; d <= 1.0; d += 0.5 {
			x = append(x, centers[name]+d)
			labels = append(labels, name)
		}
	}
	f, err := frame.New(
		frame.NewCategorical("g", labels),
		frame.NewNumeric("x", x),
	)
	require.NoError(t, err)

	m, err := glm.Fit(f, "g", []string{"x"}, allRows(len(x)), glm.Multinomial, glm.Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "mid", "high"}, m.Levels())

	probe, err := frame.New(
		frame.NewCategorical("g", []string{"low", "low", "low"}),
		frame.NewNumeric("x", []float64{-5, 0, 5}),
	)
	require.NoError(t, err)
	probs, err := m.PredictProba(probe, []int{0, 1, 2})
	require.NoError(t, err)
	for i, want := range []int{0, 1, 2} {
		best := 0
		for k := range probs[i] {
			if probs[i][k] > probs[i][best] {
				best = k
			}
		}
		assert.Equal(t, want, best, "class at probe %d", i)
		sum := 0.0
		for _, p := range probs[i] {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestFitRobustMultinomialUnsupported(t *testing.T) {
	f, err := frame.New(
		frame.NewCategorical("g", []string{"a", "b", "c", "a", "b", "c"}),
		frame.NewNumeric("x", []float64{1, 2, 3, 4, 5, 6}),
	)
	require.NoError(t, err)

	_, err = glm.Fit(f, "g", []string{"x"}, allRows(6), glm.Multinomial, glm.Config{Robust: true})
	require.ErrorIs(t, err, glm.ErrUnsupportedFamily)
}

func TestFitFamilyTargetMismatch(t *testing.T) {
	f, err := frame.New(
		frame.NewCategorical("g", []string{"a", "b", "c", "a"}),
		frame.NewNumeric("x", []float64{1, 2, 3, 4}),
	)
	require.NoError(t, err)

	_, err = glm.Fit(f, "g", []string{"x"}, allRows(4), glm.Gaussian, glm.Config{})
	require.ErrorIs(t, err, glm.ErrUnsupportedFamily)

	_, err = glm.Fit(f, "g", []string{"x"}, allRows(4), glm.Binomial, glm.Config{})
	require.ErrorIs(t, err, glm.ErrUnsupportedFamily, "three levels cannot be binomial")

	_, err = glm.Fit(f, "g", []string{"x"}, allRows(4), glm.Family(99), glm.Config{})
	require.ErrorIs(t, err, glm.ErrUnsupportedFamily)
}

// The backend requires the prediction input to be complete in every
// referenced column, the (ignored) target included.
func TestPredictRejectsMissingInput(t *testing.T) {
	f, err := frame.New(
		frame.NewNumeric("y", []float64{1, 2, 3, 4}),
		frame.NewNumeric("x", []float64{1, 2, 3, 4}),
	)
	require.NoError(t, err)
	m, err := glm.Fit(f, "y", []string{"x"}, allRows(4), glm.Gaussian, glm.Config{})
	require.NoError(t, err)

	bad, err := frame.New(
		frame.NewNumeric("y", []float64{math.NaN()}),
		frame.NewNumeric("x", []float64{2}),
	)
	require.NoError(t, err)
	_, err = m.Predict(bad, []int{0})
	require.ErrorIs(t, err, glm.ErrFitFailed)
}

func TestCategoricalPredictorEncoding(t *testing.T) {
	// y = 1 + 2*[g=b] + 4*[g=c], recoverable exactly through one-hot encoding.
	labels := []string{"a", "b", "c", "a", "b", "c", "a", "b", "c"}
	y := make([]float64, len(labels))
	for i, lab := range labels {
		switch lab {
		case "a":
			y[i] = 1
		case "b":
			y[i] = 3
		case "c":
			y[i] = 5
		}
	}
	f, err := frame.New(
		frame.NewNumeric("y", y),
		frame.NewCategorical("g", labels),
	)
	require.NoError(t, err)

	m, err := glm.Fit(f, "y", []string{"g"}, allRows(len(y)), glm.Gaussian, glm.Config{})
	require.NoError(t, err)
	preds, err := m.Predict(f, allRows(len(y)))
	require.NoError(t, err)
	for i := range preds {
		assert.InDelta(t, y[i], preds[i], 1e-8)
	}
}
