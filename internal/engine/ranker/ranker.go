package ranker

import (
	"sort"
	"strconv"

	"github.com/crimson-sun/langdetect/internal/engine/vocab"
	"github.com/crimson-sun/langdetect/internal/model"
)

// Rank zips scores with the vocabulary and sorts the pairs by score
// descending. Ordering uses full precision and equal scores keep vocabulary
// order; only the emitted scores are rounded to 3 decimal places.
//
// A length mismatch means the vocabulary and model have drifted apart and is
// reported as a model.ConfigurationError.
func Rank(scores []float64, v *vocab.Vocabulary) (model.RankedPrediction, error) {
	if len(scores) != v.Len() {
		return nil, model.Configf("rank", "score vector has %d entries, vocabulary has %d labels", len(scores), v.Len())
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	out := make(model.RankedPrediction, len(order))
	for i, idx := range order {
		out[i] = model.Prediction{Label: v.Label(idx), Score: Round(scores[idx])}
	}
	return out, nil
}

// Round rounds x to 3 decimal places using the shortest correctly rounded
// decimal representation of x, so 0.0005 style halves follow the binary
// value rather than a scaled multiplication.
func Round(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 3, 64), 64)
	if err != nil {
		return x
	}
	return r
}
