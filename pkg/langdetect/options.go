package langdetect

import (
	"time"

	"go.uber.org/zap"

	"github.com/crimson-sun/langdetect/internal/config"
	"github.com/crimson-sun/langdetect/internal/engine"
	"github.com/crimson-sun/langdetect/internal/engine/langs"
)

// Default file locations, relative to the working directory.
const (
	DefaultModelDir       = "models/shallow_model_v1"
	DefaultVocabularyPath = "models/assets/labels/vocabulary.txt"
)

type options struct {
	src      engine.Source
	logger   *zap.Logger
	observer func(batchSize int, elapsed time.Duration)
}

// Option configures a Detector.
type Option func(*options)

// WithModelDir sets the directory holding model.onnx and tokens.txt.
func WithModelDir(dir string) Option {
	return func(o *options) { o.src.ModelDir = dir }
}

// WithVocabularyPath sets the newline-delimited label file. Line i names
// output i of the model.
func WithVocabularyPath(path string) Option {
	return func(o *options) { o.src.VocabPath = path }
}

// WithSharedLibrary sets the ONNX Runtime shared library path. Default:
// libonnxruntime.so in the model directory.
func WithSharedLibrary(path string) Option {
	return func(o *options) { o.src.SharedLibrary = path }
}

// WithRemoteScorer scores through an HTTP inference service instead of a
// local ONNX model. The service answers POST /score {"texts": [...]} with
// {"scores": [[...], ...]}.
func WithRemoteScorer(baseURL string, timeout time.Duration) Option {
	return func(o *options) {
		o.src.Backend = config.BackendRemote
		o.src.RemoteURL = baseURL
		o.src.RemoteTimeout = timeout
	}
}

// WithScorer uses s for inference. The Detector takes ownership and closes
// s in Close.
func WithScorer(s Scorer) Option {
	return func(o *options) { o.src.Scorer = s }
}

// WithLanguageNames replaces the built-in code → display name table.
func WithLanguageNames(names map[string]string) Option {
	return func(o *options) { o.src.Names = langs.New(names) }
}

// WithLanguagesFile loads the display name table from a YAML mapping of
// code to name. WithLanguageNames takes precedence.
func WithLanguagesFile(path string) Option {
	return func(o *options) { o.src.LanguagesFile = path }
}

// WithLogger sets the logger for load timings and debug records.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithInferenceObserver registers a callback run after every model call
// with the batch size and inference time.
func WithInferenceObserver(f func(batchSize int, elapsed time.Duration)) Option {
	return func(o *options) { o.observer = f }
}

func defaultOptions() options {
	return options{
		src: engine.Source{
			VocabPath: DefaultVocabularyPath,
			Backend:   config.BackendONNX,
			ModelDir:  DefaultModelDir,
		},
	}
}
