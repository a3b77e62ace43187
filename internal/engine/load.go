package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crimson-sun/langdetect/internal/config"
	"github.com/crimson-sun/langdetect/internal/engine/langs"
	"github.com/crimson-sun/langdetect/internal/engine/scorer"
	"github.com/crimson-sun/langdetect/internal/engine/vocab"
	"github.com/crimson-sun/langdetect/internal/model"
)

// Source describes where a Detector's model, vocabulary and display names
// come from. Scorer, when set, takes precedence over Backend.
type Source struct {
	VocabPath     string
	LanguagesFile string

	Backend       string // config.BackendONNX or config.BackendRemote
	ModelDir      string
	SharedLibrary string
	RemoteURL     string
	RemoteTimeout time.Duration

	Scorer scorer.Scorer
	Names  *langs.Names
}

// Load reads the vocabulary, opens the scorer and builds a Detector. Every
// failure is a model.ConfigurationError; the scorer is closed when a later
// step fails.
func Load(src Source, opts ...Option) (*Detector, error) {
	settings := Detector{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&settings)
	}
	log := settings.log

	start := time.Now()
	v, err := vocab.Load(src.VocabPath)
	if err != nil {
		return nil, err
	}
	log.Debug("vocabulary loaded", zap.Int("labels", v.Len()), zap.Duration("elapsed", time.Since(start)))

	names := src.Names
	if names == nil && src.LanguagesFile != "" {
		if names, err = langs.LoadFile(src.LanguagesFile); err != nil {
			return nil, &model.ConfigurationError{Op: "load languages", Err: err}
		}
	}

	sc := src.Scorer
	if sc == nil {
		start = time.Now()
		if sc, err = openScorer(src); err != nil {
			return nil, err
		}
		log.Debug("model loaded", zap.String("backend", src.Backend), zap.Duration("elapsed", time.Since(start)))
	}

	d, err := New(sc, v, names, opts...)
	if err != nil {
		_ = sc.Close()
		return nil, err
	}
	return d, nil
}

func openScorer(src Source) (scorer.Scorer, error) {
	switch src.Backend {
	case config.BackendONNX:
		var opts []scorer.ONNXOption
		if src.SharedLibrary != "" {
			opts = append(opts, scorer.WithSharedLibrary(src.SharedLibrary))
		}
		return scorer.LoadONNX(src.ModelDir, opts...)
	case config.BackendRemote:
		if src.RemoteURL == "" {
			return nil, model.Configf("load model", "remote backend needs a URL")
		}
		return scorer.NewRemote(src.RemoteURL, src.RemoteTimeout), nil
	default:
		return nil, &model.ConfigurationError{Op: "load model", Err: fmt.Errorf("unknown backend %q", src.Backend)}
	}
}
