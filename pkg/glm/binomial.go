package glm

import (
	"fmt"
	"math"
)

const probEps = 1e-10

// fitBinomial fits a logistic regression by iteratively reweighted least
// squares. The robust variant multiplies the IRLS weights by Huber weights on
// the Pearson residuals, downweighting badly-predicted observations.
func fitBinomial(X [][]float64, y []float64, robust bool) ([]float64, error) {
	n := len(y)
	p := len(X[0])
	beta := make([]float64, p)
	w := make([]float64, n)
	z := make([]float64, n)
	prevDev := math.Inf(1)

	for iter := 0; iter < irlsMaxIter; iter++ {
		dev := 0.0
		for i := 0; i < n; i++ {
			eta := dotRow(X, i, beta)
			mu := clampProb(sigmoid(eta))
			v := mu * (1 - mu)
			w[i] = v
			z[i] = eta + (y[i]-mu)/v
			if robust {
				pearson := (y[i] - mu) / math.Sqrt(v)
				w[i] *= huberWeight(pearson)
			}
			dev += -2 * (y[i]*math.Log(mu) + (1-y[i])*math.Log(1-mu))
		}
		next, err := solveWeightedLS(X, z, w)
		if err != nil {
			return nil, err
		}
		beta = next
		if math.Abs(dev-prevDev) < irlsTol*(math.Abs(dev)+0.1) {
			return beta, nil
		}
		prevDev = dev
	}
	return nil, fmt.Errorf("%w: logistic fit did not converge in %d iterations", ErrFitFailed, irlsMaxIter)
}

func clampProb(p float64) float64 {
	return math.Min(math.Max(p, probEps), 1-probEps)
}
