package glm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ashimb9/VIM/pkg/stats"
)

const (
	huberC       = 1.345 // 95% efficiency at the normal model
	irlsMaxIter  = 50
	irlsTol      = 1e-8
	madToSigma   = 1.4826
	minIRLSScale = 1e-12
)

// fitGaussian solves the least-squares problem, optionally re-weighting
// observations with Huber weights until the coefficients stabilize.
func fitGaussian(X [][]float64, y []float64, robust bool) ([]float64, error) {
	beta, err := solveWeightedLS(X, y, nil)
	if err != nil {
		return nil, err
	}
	if !robust {
		return beta, nil
	}

	w := make([]float64, len(y))
	for iter := 0; iter < irlsMaxIter; iter++ {
		resid := make([]float64, len(y))
		for i := range y {
			resid[i] = y[i] - dotRow(X, i, beta)
		}
		scale := madToSigma * stats.MAD(resid)
		if scale < minIRLSScale {
			// Near-perfect fit; nothing left to downweight.
			return beta, nil
		}
		for i, r := range resid {
			w[i] = huberWeight(r / scale)
		}
		next, err := solveWeightedLS(X, y, w)
		if err != nil {
			return nil, err
		}
		if maxAbsDiff(beta, next) < irlsTol {
			return next, nil
		}
		beta = next
	}
	return beta, nil
}

// huberWeight is the Huber psi-weight: 1 inside the tuning constant,
// c/|u| outside.
func huberWeight(u float64) float64 {
	a := math.Abs(u)
	if a <= huberC {
		return 1
	}
	return huberC / a
}

// solveWeightedLS solves min ||sqrt(W)(y - X beta)|| via QR. A nil weight
// vector means ordinary least squares.
func solveWeightedLS(X [][]float64, y []float64, w []float64) ([]float64, error) {
	n := len(X)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty design matrix", ErrFitFailed)
	}
	p := len(X[0])
	if n < p {
		return nil, fmt.Errorf("%w: %d observations for %d coefficients", ErrFitFailed, n, p)
	}
	A := mat.NewDense(n, p, nil)
	b := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		s := 1.0
		if w != nil {
			s = math.Sqrt(w[i])
		}
		for j := 0; j < p; j++ {
			A.Set(i, j, s*X[i][j])
		}
		b.Set(i, 0, s*y[i])
	}
	var qr mat.QR
	qr.Factorize(A)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, b); err != nil {
		return nil, fmt.Errorf("%w: singular design: %v", ErrFitFailed, err)
	}
	beta := make([]float64, p)
	for j := 0; j < p; j++ {
		v := sol.At(j, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrFitFailed)
		}
		beta[j] = v
	}
	return beta, nil
}

func maxAbsDiff(a, b []float64) float64 {
	m := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}
	return m
}
