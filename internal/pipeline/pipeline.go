package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crimson-sun/langdetect/internal/engine/langs"
	"github.com/crimson-sun/langdetect/internal/model"
	"github.com/crimson-sun/langdetect/internal/output"
)

const (
	defaultMaxBatch = 256
	defaultWindow   = 200 * time.Millisecond
)

// Ranker is the detector capability a Pipeline drives.
type Ranker interface {
	Rank(ctx context.Context, texts []string) ([]model.RankedPrediction, error)
	Names() *langs.Names
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMaxBatch caps the number of texts per model call. Default: 256.
func WithMaxBatch(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxBatch = n
		}
	}
}

// WithWindow sets how long Stream waits for more lines before scoring a
// partial batch. Default: 200ms.
func WithWindow(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.window = d
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// Pipeline connects a detector and an output: texts go in, ranked
// detection records come out in input order.
type Pipeline struct {
	ranker   Ranker
	output   output.Output
	maxBatch int
	window   time.Duration
	log      *zap.Logger
}

// New creates a Pipeline from the given components.
func New(r Ranker, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		ranker:   r,
		output:   out,
		maxBatch: defaultMaxBatch,
		window:   defaultWindow,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run detects every text in one-shot mode, splitting into batches of at
// most maxBatch.
func (p *Pipeline) Run(ctx context.Context, texts []string) error {
	for start := 0; start < len(texts); start += p.maxBatch {
		end := min(start+p.maxBatch, len(texts))
		if err := p.process(ctx, texts[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// Stream detects texts as they arrive on ch. A batch is scored when it is
// full or when the window elapses after its first text. Blocks until ch is
// closed or the context is cancelled; pending texts are scored on close.
func (p *Pipeline) Stream(ctx context.Context, ch <-chan string) error {
	buf := newStreamBuffer(p.window, p.maxBatch)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text, ok := <-ch:
			if !ok {
				return p.flush(ctx, buf)
			}
			if buf.add(text) {
				if err := p.flush(ctx, buf); err != nil {
					return err
				}
			}
		case <-buf.flushCh():
			if err := p.flush(ctx, buf); err != nil {
				return err
			}
		}
	}
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}

func (p *Pipeline) flush(ctx context.Context, buf *streamBuffer) error {
	batch := buf.drain()
	if len(batch) == 0 {
		return nil
	}
	p.log.Debug("flushing batch", zap.Int("size", len(batch)))
	return p.process(ctx, batch)
}

func (p *Pipeline) process(ctx context.Context, texts []string) error {
	ranked, err := p.ranker.Rank(ctx, texts)
	if err != nil {
		return fmt.Errorf("pipeline process: %w", err)
	}
	names := p.ranker.Names()
	for i, r := range ranked {
		top, _ := r.Top()
		rec := output.Record{
			Text:     texts[i],
			LangName: names.Lookup(top.Label),
			Lang:     top.Label,
			Proba:    top.Score,
			Ranking:  r,
		}
		if err := p.output.Write(ctx, rec); err != nil {
			return fmt.Errorf("pipeline output: %w", err)
		}
	}
	return nil
}
