package impute

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// drawBinary resolves predicted response probabilities into binary level
// codes. Deterministic mode takes the level with probability above one half;
// stochastic mode draws a Bernoulli outcome per row.
func drawBinary(probs []float64, deterministic bool, src rand.Source) []int {
	codes := make([]int, len(probs))
	for i, p := range probs {
		if deterministic {
			if p > 0.5 {
				codes[i] = 1
			}
			continue
		}
		bern := distuv.Bernoulli{P: p, Src: src}
		codes[i] = int(bern.Rand())
	}
	return codes
}

// drawMultinomial resolves per-class probability vectors into level codes.
// Deterministic mode takes the argmax; stochastic mode draws one class per
// row from the categorical distribution of its probabilities.
func drawMultinomial(probs [][]float64, deterministic bool, src rand.Source) []int {
	codes := make([]int, len(probs))
	for i, row := range probs {
		if deterministic {
			codes[i] = argmax(row)
			continue
		}
		cat := distuv.NewCategorical(row, src)
		codes[i] = int(cat.Rand())
	}
	return codes
}

func argmax(x []float64) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}
