package glm

import "math"

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

// softmax maps raw class scores to a probability vector. Scores are shifted
// by their maximum before exponentiating to avoid overflow.
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
