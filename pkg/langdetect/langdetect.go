package langdetect

import (
	"context"
	"fmt"

	"github.com/crimson-sun/langdetect/internal/engine"
	"github.com/crimson-sun/langdetect/internal/engine/langs"
	"github.com/crimson-sun/langdetect/internal/engine/scorer"
	"github.com/crimson-sun/langdetect/internal/model"
)

// Scorer maps a batch of tokenized texts to one raw score row per text,
// in vocabulary order.
type Scorer = scorer.Scorer

// ConfigurationError reports a startup failure: a missing model or
// vocabulary, or a model whose output width differs from the vocabulary.
type ConfigurationError = model.ConfigurationError

// InvalidInputError reports a rejected request, such as an empty text.
type InvalidInputError = model.InvalidInputError

// Errors returned for empty input.
var (
	ErrTextRequired  = engine.ErrTextRequired
	ErrTextsRequired = engine.ErrTextsRequired
)

// Unknown is the display name of labels missing from the name table.
const Unknown = langs.Unknown

// Result is the top-ranked language of one text.
type Result struct {
	LangName string  `json:"lang_name"`
	Lang     string  `json:"lang"`
	Proba    float64 `json:"proba"`
}

// BatchResult is the top-ranked language of one text in a batch.
type BatchResult struct {
	Lang  string  `json:"lang"`
	Proba float64 `json:"proba"`
}

// Prediction is one label and its score rounded to 3 decimals.
type Prediction struct {
	Label string  `json:"lang"`
	Score float64 `json:"proba"`
}

// Detector identifies the language of texts. Safe for concurrent use.
type Detector struct {
	engine *engine.Detector
}

// New loads the vocabulary and model and returns a ready Detector.
// Configuration failures are reported as *ConfigurationError.
func New(opts ...Option) (*Detector, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var engOpts []engine.Option
	if o.logger != nil {
		engOpts = append(engOpts, engine.WithLogger(o.logger))
	}
	if o.observer != nil {
		engOpts = append(engOpts, engine.WithInferenceObserver(o.observer))
	}

	eng, err := engine.Load(o.src, engOpts...)
	if err != nil {
		return nil, fmt.Errorf("langdetect: %w", err)
	}
	return &Detector{engine: eng}, nil
}

// Detect returns the most likely language of text.
func (d *Detector) Detect(ctx context.Context, text string) (Result, error) {
	r, err := d.engine.Detect(ctx, text)
	if err != nil {
		return Result{}, err
	}
	return Result{LangName: r.LangName, Lang: r.Lang, Proba: r.Proba}, nil
}

// DetectBatch returns the most likely language of each text, in input
// order, with one model call for the whole batch.
func (d *Detector) DetectBatch(ctx context.Context, texts []string) ([]BatchResult, error) {
	rs, err := d.engine.DetectBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	out := make([]BatchResult, len(rs))
	for i, r := range rs {
		out[i] = BatchResult{Lang: r.Lang, Proba: r.Proba}
	}
	return out, nil
}

// Rank returns every label of the vocabulary for each text, best first.
func (d *Detector) Rank(ctx context.Context, texts []string) ([][]Prediction, error) {
	ranked, err := d.engine.Rank(ctx, texts)
	if err != nil {
		return nil, err
	}
	out := make([][]Prediction, len(ranked))
	for i, r := range ranked {
		ps := make([]Prediction, len(r))
		for j, p := range r {
			ps[j] = Prediction{Label: p.Label, Score: p.Score}
		}
		out[i] = ps
	}
	return out, nil
}

// Labels returns the vocabulary in model output order.
func (d *Detector) Labels() []string {
	return d.engine.Labels()
}

// Languages returns a copy of the code → display name table.
func (d *Detector) Languages() map[string]string {
	return d.engine.Names().Map()
}

// LanguageName returns the display name of code, or Unknown.
func (d *Detector) LanguageName(code string) string {
	return d.engine.Names().Lookup(code)
}

// Close releases model resources.
func (d *Detector) Close() error {
	return d.engine.Close()
}
