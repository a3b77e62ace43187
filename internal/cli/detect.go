package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/langdetect/internal/engine"
	"github.com/crimson-sun/langdetect/internal/output"
	"github.com/crimson-sun/langdetect/internal/output/file"
	"github.com/crimson-sun/langdetect/internal/output/multi"
	"github.com/crimson-sun/langdetect/internal/output/stdout"
	"github.com/crimson-sun/langdetect/internal/output/text"
	"github.com/crimson-sun/langdetect/internal/pipeline"
)

type detectOptions struct {
	top     int
	json    bool
	pretty  bool
	outFile string
	outMax  int64
	stream  bool
	window  time.Duration
}

func (a *app) detectCmd() *cobra.Command {
	var o detectOptions
	cmd := &cobra.Command{
		Use:   "detect [TEXT...]",
		Short: "Detect the language of each argument, or of each stdin line",
		Long: `Detect the language of each argument. Without arguments every non-blank
line of stdin is a text.

Examples:
  langdetect detect "Hello world" "Bonjour le monde"
  langdetect detect --top 3 "Dobrý den"
  cat lines.txt | langdetect detect --json --out results.jsonl
  tail -f chat.log | langdetect detect --stream`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.detect(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args, o)
		},
	}
	cmd.Flags().IntVarP(&o.top, "top", "n", 1, "number of ranked languages to show per text")
	cmd.Flags().BoolVar(&o.json, "json", false, "output as JSON lines")
	cmd.Flags().BoolVar(&o.pretty, "pretty", false, "indent JSON output")
	cmd.Flags().StringVarP(&o.outFile, "out", "o", "", "also append JSON lines to this file")
	cmd.Flags().Int64Var(&o.outMax, "out-max-size", 0, "rotate the --out file when it would exceed this many bytes (0 never rotates)")
	cmd.Flags().BoolVar(&o.stream, "stream", false, "score stdin lines as they arrive instead of reading to EOF")
	cmd.Flags().DurationVar(&o.window, "window", 200*time.Millisecond, "with --stream, longest wait before scoring a partial batch")
	return cmd
}

func (a *app) detect(ctx context.Context, in io.Reader, w io.Writer, args []string, o detectOptions) error {
	for _, t := range args {
		if t == "" {
			return engine.ErrTextRequired
		}
	}
	texts := args
	if len(texts) == 0 && !o.stream {
		var err error
		if texts, err = pipeline.ReadLines(in); err != nil {
			return err
		}
		if len(texts) == 0 {
			return errors.New("no text to detect")
		}
	}

	out, err := newOutput(w, o)
	if err != nil {
		return err
	}

	det, err := a.loadDetector()
	if err != nil {
		_ = out.Close()
		return err
	}
	defer det.Close()

	p := pipeline.New(det, out,
		pipeline.WithMaxBatch(a.cfg.Server.MaxBatch),
		pipeline.WithWindow(o.window),
		pipeline.WithLogger(a.log),
	)

	if len(texts) > 0 {
		err = p.Run(ctx, texts)
	} else {
		streamCtx, cancel := context.WithCancel(ctx)
		lines, errc := pipeline.Lines(streamCtx, in)
		err = p.Stream(streamCtx, lines)
		cancel()
		// Stream returns nil only once lines is closed, so errc is ready.
		if err == nil {
			err = <-errc
		}
	}
	if cerr := p.Close(); err == nil {
		err = cerr
	}
	return err
}

func newOutput(w io.Writer, o detectOptions) (output.Output, error) {
	var primary output.Output
	if o.json || o.pretty {
		primary = stdout.New(o.top, o.pretty, stdout.WithWriter(w))
	} else {
		primary = text.New(w, o.top)
	}
	if o.outFile == "" {
		return primary, nil
	}

	f, err := file.New(o.outFile, o.top, file.WithMaxSize(o.outMax))
	if err != nil {
		return nil, err
	}
	return multi.New(primary, f), nil
}
