package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/langdetect/internal/output"
)

// Option configures a stdout Output.
type Option func(*options)

type options struct {
	w io.Writer
}

// WithWriter redirects output away from os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.w = w }
}

// Output writes JSON-encoded detection records to stdout.
type Output struct {
	enc *json.Encoder
	top int
}

// New creates a new stdout Output keeping the top ranking entries and
// optionally pretty-printing the JSON.
func New(top int, pretty bool, opts ...Option) *Output {
	o := options{w: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	enc := json.NewEncoder(o.w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, top: top}
}

func (o *Output) Write(_ context.Context, rec output.Record) error {
	if err := o.enc.Encode(output.FormatRecord(rec, o.top)); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
