package glm

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ashimb9/VIM/pkg/optim"
	"github.com/ashimb9/VIM/pkg/stats"
)

const (
	softmaxEpochs    = 400
	softmaxLearnRate = 0.5
	softmaxTraceEach = 50
)

// fitMultinomial fits a softmax regression over k classes by full-batch
// gradient descent. Weights start at zero, so the fit itself is deterministic.
// Design columns are standardized internally for a stable step size; the
// returned coefficients are on the original scale. Per-epoch progress goes to
// the trace logger.
func fitMultinomial(X [][]float64, y []int, k int, trace *slog.Logger) ([][]float64, error) {
	n := len(X)
	p := len(X[0])
	Z, means, stds := standardize(X)

	coef := make([][]float64, k)
	grad := make([][]float64, k)
	for c := 0; c < k; c++ {
		coef[c] = make([]float64, p)
		grad[c] = make([]float64, p)
	}
	opt := optim.NewSGD(softmaxLearnRate)

	scores := make([]float64, k)
	for ep := 0; ep < softmaxEpochs; ep++ {
		for c := 0; c < k; c++ {
			for j := 0; j < p; j++ {
				grad[c][j] = 0
			}
		}
		loss := 0.0
		for i := 0; i < n; i++ {
			for c := 0; c < k; c++ {
				scores[c] = dotRow(Z, i, coef[c])
			}
			probs := softmax(scores)
			loss += -math.Log(clampProb(probs[y[i]]))
			for c := 0; c < k; c++ {
				d := probs[c]
				if c == y[i] {
					d -= 1
				}
				for j, zij := range Z[i] {
					grad[c][j] += d * zij / float64(n)
				}
			}
		}
		for c := 0; c < k; c++ {
			opt.Step(coef[c], grad[c])
		}
		if ep%softmaxTraceEach == 0 {
			trace.Info("multinomial fit", "epoch", ep, "loss", loss/float64(n))
		}
	}
	for c := 0; c < k; c++ {
		for j := range coef[c] {
			if math.IsNaN(coef[c][j]) || math.IsInf(coef[c][j], 0) {
				return nil, fmt.Errorf("%w: softmax fit diverged", ErrFitFailed)
			}
		}
	}
	return unstandardizeCoef(coef, means, stds), nil
}

// standardize centers and scales every design column except the intercept.
// Constant columns are left untouched.
func standardize(X [][]float64) (Z [][]float64, means, stds []float64) {
	n := len(X)
	p := len(X[0])
	means = make([]float64, p)
	stds = make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			col[i] = X[i][j]
		}
		means[j] = stats.Mean(col)
		stds[j] = stats.Std(col)
	}
	// Intercept column stays as-is.
	means[0], stds[0] = 0, 1
	Z = make([][]float64, n)
	for i := 0; i < n; i++ {
		Z[i] = make([]float64, p)
		for j := 0; j < p; j++ {
			if stds[j] < minIRLSScale {
				Z[i][j] = X[i][j]
				continue
			}
			Z[i][j] = (X[i][j] - means[j]) / stds[j]
		}
	}
	return Z, means, stds
}

// unstandardizeCoef maps coefficients fit in standardized space back to the
// original design scale.
func unstandardizeCoef(coef [][]float64, means, stds []float64) [][]float64 {
	out := make([][]float64, len(coef))
	for c, b := range coef {
		ob := make([]float64, len(b))
		intercept := b[0]
		for j := 1; j < len(b); j++ {
			if stds[j] < minIRLSScale {
				ob[j] = b[j]
				continue
			}
			ob[j] = b[j] / stds[j]
			intercept -= b[j] * means[j] / stds[j]
		}
		ob[0] = intercept
		out[c] = ob
	}
	return out
}
