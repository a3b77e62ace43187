package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted in ModelConfig.Backend.
const (
	BackendONNX   = "onnx"
	BackendRemote = "remote"
)

// Config holds all langdetect configuration.
type Config struct {
	Model  ModelConfig
	Server ServerConfig
	Log    LogConfig
	Cache  CacheConfig
}

// ModelConfig locates the classifier and its label vocabulary.
type ModelConfig struct {
	Dir           string
	VocabPath     string
	Backend       string // "onnx" or "remote"
	SharedLibrary string
	RemoteURL     string
	RemoteTimeout time.Duration
	LanguagesFile string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host     string
	Port     int
	Mode     string // gin mode: debug, release, test
	MaxBatch int
	MaxBody  int64 // request body limit in bytes
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// CacheConfig holds the optional Redis result cache settings. An empty
// Addr disables the cache.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether the cache is configured.
func (c CacheConfig) Enabled() bool {
	return c.Addr != ""
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Model: ModelConfig{
			Dir:           getenv("LANGDETECT_MODEL_DIR", "models/shallow_model_v1"),
			VocabPath:     getenv("LANGDETECT_VOCAB_PATH", "models/assets/labels/vocabulary.txt"),
			Backend:       strings.ToLower(getenv("LANGDETECT_BACKEND", BackendONNX)),
			SharedLibrary: os.Getenv("LANGDETECT_ORT_LIB"),
			RemoteURL:     os.Getenv("LANGDETECT_REMOTE_URL"),
			RemoteTimeout: getenvDuration("LANGDETECT_REMOTE_TIMEOUT", 10*time.Second),
			LanguagesFile: os.Getenv("LANGDETECT_LANGUAGES_FILE"),
		},
		Server: ServerConfig{
			Host:     getenv("LANGDETECT_HOST", "0.0.0.0"),
			Port:     getenvInt("LANGDETECT_PORT", 8080),
			Mode:     getenv("LANGDETECT_GIN_MODE", "release"),
			MaxBatch: getenvInt("LANGDETECT_MAX_BATCH", 256),
			MaxBody:  int64(getenvInt("LANGDETECT_MAX_BODY_BYTES", 1<<20)),
		},
		Log: LogConfig{
			Level:  getenv("LANGDETECT_LOG_LEVEL", "info"),
			Format: getenv("LANGDETECT_LOG_FORMAT", "json"),
		},
		Cache: CacheConfig{
			Addr:     os.Getenv("LANGDETECT_REDIS_ADDR"),
			Password: os.Getenv("LANGDETECT_REDIS_PASSWORD"),
			DB:       getenvInt("LANGDETECT_REDIS_DB", 0),
			TTL:      getenvDuration("LANGDETECT_CACHE_TTL", time.Hour),
		},
	}
}

// Validate checks the configuration for values that cannot work. All
// problems are reported together.
func (c Config) Validate() error {
	var errs []error

	switch c.Model.Backend {
	case BackendONNX:
		if c.Model.Dir == "" {
			errs = append(errs, errors.New("LANGDETECT_MODEL_DIR is required for the onnx backend"))
		}
	case BackendRemote:
		if c.Model.RemoteURL == "" {
			errs = append(errs, errors.New("LANGDETECT_REMOTE_URL is required for the remote backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q (want onnx or remote)", c.Model.Backend))
	}
	if c.Model.VocabPath == "" {
		errs = append(errs, errors.New("LANGDETECT_VOCAB_PATH is required"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}
	if c.Server.MaxBatch < 1 {
		errs = append(errs, fmt.Errorf("max batch must be positive, got %d", c.Server.MaxBatch))
	}
	if c.Server.MaxBody < 1 {
		errs = append(errs, fmt.Errorf("max body size must be positive, got %d", c.Server.MaxBody))
	}
	if c.Cache.Enabled() && c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache TTL must be positive, got %v", c.Cache.TTL))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
