package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/langdetect/internal/output"
)

// Multi fans out detection records to several outputs, in order. A failing
// output does not stop delivery to the ones after it.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi that fans out to the given outputs.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

// Write delivers rec to every wrapped output and joins their errors.
func (m *Multi) Write(ctx context.Context, rec output.Record) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on every wrapped output, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
