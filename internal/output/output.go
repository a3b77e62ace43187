package output

import (
	"context"

	"github.com/crimson-sun/langdetect/internal/model"
)

// Record is one detected text as written by the CLI.
type Record struct {
	Text     string                 `json:"text"`
	LangName string                 `json:"lang_name"`
	Lang     string                 `json:"lang"`
	Proba    float64                `json:"proba"`
	Ranking  model.RankedPrediction `json:"ranking,omitempty"`
}

// Output defines the interface for detection record destinations.
type Output interface {
	Write(ctx context.Context, rec Record) error
	Close() error
}
