// Package text writes detection records as human-readable lines.
package text

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/crimson-sun/langdetect/internal/output"
)

// Output prints one tab-separated line per record, followed by the
// ranking when more than one entry is kept:
//
//	fra	French	0.700	Bonjour
//	  1. fra	0.700
//	  2. deu	0.200
type Output struct {
	w   io.Writer
	top int
}

// New creates a text output writing to w.
func New(w io.Writer, top int) *Output {
	return &Output{w: w, top: top}
}

func (o *Output) Write(_ context.Context, rec output.Record) error {
	rec = output.FormatRecord(rec, o.top)
	if _, err := fmt.Fprintf(o.w, "%s\t%s\t%s\t%s\n", rec.Lang, rec.LangName, formatScore(rec.Proba), rec.Text); err != nil {
		return fmt.Errorf("text output: %w", err)
	}
	for i, p := range rec.Ranking {
		if _, err := fmt.Fprintf(o.w, "  %d. %s\t%s\n", i+1, p.Label, formatScore(p.Score)); err != nil {
			return fmt.Errorf("text output: %w", err)
		}
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}

func formatScore(x float64) string {
	return strconv.FormatFloat(x, 'f', 3, 64)
}
