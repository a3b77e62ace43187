package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crimson-sun/langdetect/internal/engine/langs"
	"github.com/crimson-sun/langdetect/internal/engine/ranker"
	"github.com/crimson-sun/langdetect/internal/engine/scorer"
	"github.com/crimson-sun/langdetect/internal/engine/tokenizer"
	"github.com/crimson-sun/langdetect/internal/engine/vocab"
	"github.com/crimson-sun/langdetect/internal/model"
)

// ErrTextRequired is returned by Detect for an empty text.
var ErrTextRequired = &model.InvalidInputError{Reason: "text is required"}

// ErrTextsRequired is returned by DetectBatch and Rank for an empty batch.
var ErrTextsRequired = &model.InvalidInputError{Reason: "texts is required"}

// InferenceObserver receives the batch size and duration of every scoring call.
type InferenceObserver func(batchSize int, elapsed time.Duration)

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger for timing and debug records. Default: no-op.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

// WithInferenceObserver registers a callback invoked after each scoring call.
func WithInferenceObserver(f InferenceObserver) Option {
	return func(d *Detector) { d.observe = f }
}

// Detector orchestrates the tokenize → score → rank pipeline. All state is
// read-only after New, so a Detector is safe for concurrent use.
type Detector struct {
	scorer  scorer.Scorer
	vocab   *vocab.Vocabulary
	names   *langs.Names
	log     *zap.Logger
	observe InferenceObserver
}

// New creates a Detector. When the scorer reports its output width, a width
// that differs from the vocabulary length fails here with a
// model.ConfigurationError; otherwise the first scoring call reports it.
func New(sc scorer.Scorer, v *vocab.Vocabulary, names *langs.Names, opts ...Option) (*Detector, error) {
	if sc == nil {
		return nil, model.Configf("new detector", "scorer is nil")
	}
	if v == nil {
		return nil, model.Configf("new detector", "vocabulary is nil")
	}
	if names == nil {
		names = langs.Default()
	}

	d := &Detector{scorer: sc, vocab: v, names: names, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}

	if dim, ok := sc.(scorer.Dimensioned); ok {
		if n := dim.OutputDim(); n > 0 && n != v.Len() {
			return nil, model.Configf("new detector", "model emits %d scores, vocabulary has %d labels", n, v.Len())
		}
	}

	for _, label := range v.Labels() {
		if !langs.IsISO639(label) {
			d.log.Warn("vocabulary label is not an ISO 639 code", zap.String("label", label))
		}
	}
	return d, nil
}

// Detect returns the top-ranked language of text.
func (d *Detector) Detect(ctx context.Context, text string) (model.DetectionResult, error) {
	if text == "" {
		return model.DetectionResult{}, ErrTextRequired
	}
	ranked, err := d.rank(ctx, []string{text})
	if err != nil {
		return model.DetectionResult{}, err
	}
	top, _ := ranked[0].Top()
	return model.DetectionResult{
		LangName: d.names.Lookup(top.Label),
		Lang:     top.Label,
		Proba:    top.Score,
	}, nil
}

// DetectBatch returns the top-ranked language of each text, in input order,
// using a single scoring call for the whole batch.
func (d *Detector) DetectBatch(ctx context.Context, texts []string) ([]model.BatchResult, error) {
	if len(texts) == 0 {
		return nil, ErrTextsRequired
	}
	ranked, err := d.rank(ctx, texts)
	if err != nil {
		return nil, err
	}
	results := make([]model.BatchResult, len(ranked))
	for i, r := range ranked {
		top, _ := r.Top()
		results[i] = model.BatchResult{Lang: top.Label, Proba: top.Score}
	}
	return results, nil
}

// Rank returns the full ranked prediction of each text, in input order.
func (d *Detector) Rank(ctx context.Context, texts []string) ([]model.RankedPrediction, error) {
	if len(texts) == 0 {
		return nil, ErrTextsRequired
	}
	return d.rank(ctx, texts)
}

func (d *Detector) rank(ctx context.Context, texts []string) ([]model.RankedPrediction, error) {
	start := time.Now()
	batch := tokenizer.TokenizeBatch(texts)
	d.log.Debug("model input prepared", zap.Int("batch_size", len(batch)), zap.Duration("elapsed", time.Since(start)))

	start = time.Now()
	scores, err := d.scorer.Score(ctx, batch)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("engine: score: %w", err)
	}
	d.log.Debug("raw prediction", zap.Int("batch_size", len(batch)), zap.Duration("elapsed", elapsed))
	if d.observe != nil {
		d.observe(len(batch), elapsed)
	}

	if len(scores) != len(texts) {
		return nil, fmt.Errorf("engine: model returned %d score rows for %d texts", len(scores), len(texts))
	}

	out := make([]model.RankedPrediction, len(scores))
	for i, row := range scores {
		r, err := ranker.Rank(row, d.vocab)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		out[i] = r
	}
	return out, nil
}

// Labels returns the vocabulary in index order.
func (d *Detector) Labels() []string {
	return d.vocab.Labels()
}

// Names returns the display-name table.
func (d *Detector) Names() *langs.Names {
	return d.names
}

// Close releases the scorer.
func (d *Detector) Close() error {
	return d.scorer.Close()
}
