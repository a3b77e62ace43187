// Package scorer adapts opaque language classification models to a single
// batched scoring call.
package scorer

import "context"

// Scorer produces one raw score vector per tokenized text, in input order.
// Scores are passed through as the model emits them: no softmax, no
// assumption that they sum to 1 or lie in [0, 1].
type Scorer interface {
	Score(ctx context.Context, batch []string) ([][]float64, error)
	Close() error
}

// Dimensioned is implemented by scorers that know their output width ahead
// of the first call. OutputDim returns 0 when the width is unknown.
type Dimensioned interface {
	OutputDim() int
}
