package model

// Prediction is a single (label, score) pair emitted by the ranker.
type Prediction struct {
	Label string  `json:"lang"`
	Score float64 `json:"proba"`
}

// RankedPrediction is the full score row for one text, sorted by score
// descending. Scores are rounded to 3 decimal places.
type RankedPrediction []Prediction

// Top returns the highest ranked pair. ok is false for an empty ranking.
func (r RankedPrediction) Top() (p Prediction, ok bool) {
	if len(r) == 0 {
		return Prediction{}, false
	}
	return r[0], true
}

// DetectionResult is the outcome of detecting the language of a single text.
type DetectionResult struct {
	LangName string  `json:"lang_name"`
	Lang     string  `json:"lang"`
	Proba    float64 `json:"proba"`
}

// BatchResult is the per-text outcome of a batch detection.
type BatchResult struct {
	Lang  string  `json:"lang"`
	Proba float64 `json:"proba"`
}
