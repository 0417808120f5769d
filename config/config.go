package config

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/core"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the service configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	AI       AIConfig          `yaml:"ai"`
	Cache    CacheConfig       `yaml:"cache"`
	Database DatabaseConfig    `yaml:"database"`
	Pipeline PipelineConfig    `yaml:"pipeline"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return c.Pipeline.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	MaxUploadMB     int64         `yaml:"max_upload_mb"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *HTTPConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.MaxUploadMB, validation.Required, validation.Min(int64(1)), validation.Max(int64(1024))),
		validation.Field(&c.ShutdownTimeout, validation.Required),
	)
}

// AIConfig holds the inference provider endpoints.
// Host, when set, is used for every service without its own host.
type AIConfig struct {
	Host               string        `yaml:"host"`
	TextHost           string        `yaml:"text_host"`
	TextModel          string        `yaml:"text_model"`
	EmbeddingHost      string        `yaml:"embedding_host"`
	EmbeddingModel     string        `yaml:"embedding_model"`
	TranscriptionHost  string        `yaml:"transcription_host"`
	TranscriptionModel string        `yaml:"transcription_model"`
	APIKey             string        `yaml:"api_key"`
	OCRLanguage        string        `yaml:"ocr_language"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	MaxAttempts        int           `yaml:"max_attempts"`
	RetryDelay         time.Duration `yaml:"retry_delay"`
}

// Validate validates the AI configuration.
func (c *AIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.When(c.TextHost == "" || c.EmbeddingHost == "" || c.TranscriptionHost == "",
			validation.Required.Error("is required unless every service host is set"))),
		validation.Field(&c.TextModel, validation.Required),
		validation.Field(&c.EmbeddingModel, validation.Required),
		validation.Field(&c.TranscriptionModel, validation.Required),
		validation.Field(&c.OCRLanguage, validation.Required),
		validation.Field(&c.RequestTimeout, validation.Required),
		validation.Field(&c.MaxAttempts, validation.Required, validation.Min(1), validation.Max(10)),
	)
}

// Provider converts the section into an ai.Config.
func (c *AIConfig) Provider() *ai.Config {
	pick := func(specific string) string {
		if specific != "" {
			return specific
		}
		return c.Host
	}
	return ai.NewConfig(
		ai.WithTextHost(pick(c.TextHost)),
		ai.WithEmbeddingHost(pick(c.EmbeddingHost)),
		ai.WithTranscriptionHost(pick(c.TranscriptionHost)),
		ai.WithTextModel(c.TextModel),
		ai.WithEmbeddingModel(c.EmbeddingModel),
		ai.WithTranscriptionModel(c.TranscriptionModel),
		ai.WithAPIKey(c.APIKey),
		ai.WithOCRLanguage(c.OCRLanguage),
		ai.WithRequestTimeout(c.RequestTimeout),
		ai.WithRetry(c.MaxAttempts, c.RetryDelay),
	)
}

// CacheConfig holds stage cache configuration.
// An empty Path keeps the cache in memory.
type CacheConfig struct {
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
	)
}

// DatabaseConfig holds relational store configuration.
// DSN is a file path for sqlite and a connection URI for postgres.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
	)
}

// PipelineConfig holds orchestration defaults.
type PipelineConfig struct {
	PoolSize      int           `yaml:"pool_size"`
	SummaryStyle  string        `yaml:"summary_style"`
	MaxQuestions  int           `yaml:"max_questions"`
	TopTags       int           `yaml:"top_tags"`
	MaxFrames     int           `yaml:"max_frames"`
	ChunkDuration time.Duration `yaml:"chunk_duration"`
}

// Validate validates the pipeline configuration.
func (c *PipelineConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PoolSize, validation.Min(0)),
		validation.Field(&c.SummaryStyle, validation.In(string(core.SummaryParagraph), string(core.SummaryBullets))),
		validation.Field(&c.MaxQuestions, validation.Required, validation.Min(1)),
		validation.Field(&c.TopTags, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxFrames, validation.Required, validation.Min(1)),
		validation.Field(&c.ChunkDuration, validation.Required, validation.Min(time.Second)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Addr:            ":8080",
				MaxUploadMB:     25,
				ShutdownTimeout: 10 * time.Second,
			},
		},
		AI: AIConfig{
			Host:               aiDefaults.TextHost,
			TextModel:          aiDefaults.TextModel,
			EmbeddingModel:     aiDefaults.EmbeddingModel,
			TranscriptionModel: aiDefaults.TranscriptionModel,
			APIKey:             aiDefaults.APIKey,
			OCRLanguage:        aiDefaults.OCRLanguage,
			RequestTimeout:     aiDefaults.RequestTimeout,
			MaxAttempts:        aiDefaults.MaxAttempts,
			RetryDelay:         aiDefaults.RetryDelay,
		},
		Cache: CacheConfig{
			TTL: time.Hour,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "./neuronote.db",
		},
		Pipeline: PipelineConfig{
			SummaryStyle:  string(core.SummaryParagraph),
			MaxQuestions:  5,
			TopTags:       5,
			MaxFrames:     2,
			ChunkDuration: 30 * time.Second,
		},
	}
}
