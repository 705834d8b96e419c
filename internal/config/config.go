package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is read from the environment. The env tag names the variable a
// field comes from and is used in validation messages.
type Config struct {
	Port string `env:"PORT" validate:"omitempty,numeric"`

	// Index connection. An empty IndexURL disables publishing.
	IndexURL       string  `env:"INDEX_URL" validate:"omitempty,url"`
	IndexAPIKey    string  `env:"INDEX_API_KEY" validate:"required_with=IndexURL"`
	IndexRateLimit float64 `env:"INDEX_RATE_LIMIT" validate:"gte=0"` // writes per second, 0 = unlimited

	// Auth
	APIKey string `env:"DOCMODEL_API_KEY" validate:"required"`

	// Worker pool
	WorkerCount          int `env:"WORKER_COUNT" validate:"gte=0"`
	MaxQueueSize         int `env:"MAX_QUEUE_SIZE" validate:"gte=0"`
	MaxConcurrentPublish int `env:"MAX_CONCURRENT_PUBLISH" validate:"gte=0"`

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults
	DefaultChunkSize    int
	DefaultChunkOverlap int

	// Job state
	JobTTL time.Duration

	// Latency stats window
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		IndexURL:       os.Getenv("INDEX_URL"),
		IndexAPIKey:    os.Getenv("INDEX_API_KEY"),
		IndexRateLimit: envFloat("INDEX_RATE_LIMIT", 0),

		APIKey: os.Getenv("DOCMODEL_API_KEY"),

		WorkerCount:          envInt("WORKER_COUNT", 4),
		MaxQueueSize:         envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentPublish: envInt("MAX_CONCURRENT_PUBLISH", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		DefaultChunkSize:    envInt("DEFAULT_CHUNK_SIZE", 1500),
		DefaultChunkOverlap: envInt("DEFAULT_CHUNK_OVERLAP", 200),

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentPublish <= 0 {
		cfg.MaxConcurrentPublish = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = 1500
	}
	if cfg.DefaultChunkOverlap <= 0 {
		cfg.DefaultChunkOverlap = 200
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}
	if cfg.IndexRateLimit < 0 {
		cfg.IndexRateLimit = 0
	}

	return cfg
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}

// Validate checks required settings and value ranges. Every problem is
// reported, joined into one error.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fieldError(fe))
	}
	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "required_with":
		return fmt.Errorf("%s is required when %s is set", name, envName(fe.Param()))
	case "url":
		return fmt.Errorf("%s must be an absolute URL, got %q", name, fe.Value())
	case "numeric":
		return fmt.Errorf("%s must be a number, got %q", name, fe.Value())
	case "gte":
		return fmt.Errorf("%s must not be negative", name)
	}
	return fmt.Errorf("%s is invalid (%s)", name, fe.Tag())
}

// envName maps a struct field name to its environment variable.
func envName(field string) string {
	if f, ok := reflect.TypeOf(Config{}).FieldByName(field); ok {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
	}
	return field
}

// PublishEnabled reports whether an index is configured.
func (c Config) PublishEnabled() bool {
	return c.IndexURL != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
