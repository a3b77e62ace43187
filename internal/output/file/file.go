// Package file appends detection records to a file as NDJSON.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/crimson-sun/langdetect/internal/output"
)

const (
	defaultBufSize = 64 * 1024
	defaultKeep    = 5
)

// Option configures a file Output.
type Option func(*settings)

type settings struct {
	maxSize int64
	keep    int
	bufSize int
}

// WithMaxSize starts a new file once the current one would grow past n
// bytes. 0 (default) never rotates.
func WithMaxSize(n int64) Option {
	return func(s *settings) { s.maxSize = n }
}

// WithKeep sets how many rotated files ({path}.1 .. {path}.n) are retained.
// Default: 5.
func WithKeep(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.keep = n
		}
	}
}

// Output is an output.Output writing one JSON record per line.
type Output struct {
	mu  sync.Mutex
	top int
	buf bytes.Buffer
	enc *json.Encoder
	dst *rotatingWriter
}

// New opens path for appending, creating it when missing. Records keep the
// top ranking entries.
func New(path string, top int, opts ...Option) (*Output, error) {
	s := settings{keep: defaultKeep, bufSize: defaultBufSize}
	for _, opt := range opts {
		opt(&s)
	}
	dst, err := openRotating(path, s)
	if err != nil {
		return nil, fmt.Errorf("file output: %w", err)
	}
	o := &Output{top: top, dst: dst}
	o.enc = json.NewEncoder(&o.buf)
	return o, nil
}

// Write appends rec as a single line. A line is never split across files.
func (o *Output) Write(_ context.Context, rec output.Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.buf.Reset()
	if err := o.enc.Encode(output.FormatRecord(rec, o.top)); err != nil {
		return fmt.Errorf("file output: encode: %w", err)
	}
	if _, err := o.dst.Write(o.buf.Bytes()); err != nil {
		return fmt.Errorf("file output: %w", err)
	}
	return nil
}

// Close flushes pending lines and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.dst.Close(); err != nil {
		return fmt.Errorf("file output: %w", err)
	}
	return nil
}
