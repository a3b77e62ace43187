// Package cli implements the langdetect command line.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crimson-sun/langdetect/internal/config"
	"github.com/crimson-sun/langdetect/internal/engine"
	"github.com/crimson-sun/langdetect/internal/logging"
)

// app holds state shared by all subcommands once the root pre-run has
// loaded configuration.
type app struct {
	cfg config.Config
	log *zap.Logger

	logLevel  string
	logFormat string
	modelDir  string
	vocabPath string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "langdetect",
		Short: "Detect the language of text with a character-level classifier",
		Long: `langdetect tokenizes text into characters, scores it with a trained
classifier and reports the most likely language.

Configuration comes from LANGDETECT_* environment variables, optionally
loaded from a .env file in the working directory.

Example usage:
  langdetect serve                     # Start the HTTP API
  langdetect detect "Bonjour le monde" # Detect one text
  langdetect detect --top 3 --json < lines.txt
  langdetect languages                 # List display names`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from LANGDETECT_LOG_LEVEL)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: json or console (default from LANGDETECT_LOG_FORMAT)")
	root.PersistentFlags().StringVar(&a.modelDir, "model-dir", "", "model directory (default from LANGDETECT_MODEL_DIR)")
	root.PersistentFlags().StringVar(&a.vocabPath, "vocab", "", "label vocabulary file (default from LANGDETECT_VOCAB_PATH)")

	root.AddCommand(a.serveCmd(), a.detectCmd(), a.languagesCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// A missing .env file is normal.
	_ = godotenv.Load()

	a.cfg = config.Load()
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		a.cfg.Log.Format = a.logFormat
	}
	if a.modelDir != "" {
		a.cfg.Model.Dir = a.modelDir
	}
	if a.vocabPath != "" {
		a.cfg.Model.VocabPath = a.vocabPath
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.log = logging.NewWriter(cmd.ErrOrStderr(), a.cfg.Log.Level, a.cfg.Log.Format)
	return nil
}

// loadDetector builds a Detector from the loaded configuration.
func (a *app) loadDetector(opts ...engine.Option) (*engine.Detector, error) {
	m := a.cfg.Model
	src := engine.Source{
		VocabPath:     m.VocabPath,
		LanguagesFile: m.LanguagesFile,
		Backend:       m.Backend,
		ModelDir:      m.Dir,
		SharedLibrary: m.SharedLibrary,
		RemoteURL:     m.RemoteURL,
		RemoteTimeout: m.RemoteTimeout,
	}
	opts = append([]engine.Option{engine.WithLogger(a.log)}, opts...)

	d, err := engine.Load(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load detector: %w", err)
	}
	a.log.Info("detector ready",
		zap.String("backend", m.Backend),
		zap.Int("labels", len(d.Labels())),
		zap.Int("languages", d.Names().Len()),
	)
	return d, nil
}
