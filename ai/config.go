// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// TextHost is the base URL for the chat completion API used to
	// summarize text and write questions.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	TextHost string

	// TextModel is the model identifier used for summaries and questions.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	TextModel string

	// EmbeddingHost is the base URL for the embedding service API.
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// TranscriptionHost is the base URL for the audio transcription API.
	TranscriptionHost string

	// TranscriptionModel is the speech recognition model identifier.
	// Example: "whisper-1", "Systran/faster-whisper-small"
	TranscriptionModel string

	// APIKey is sent as a bearer token. Local servers accept "none".
	APIKey string

	// OCRLanguage is the Tesseract language spec, e.g. "eng" or "eng+fra".
	OCRLanguage string

	// RequestTimeout bounds a single provider call.
	// Default: 60s
	RequestTimeout time.Duration

	// MaxAttempts is the number of tries for a transient provider failure.
	// Default: 3
	MaxAttempts int

	// RetryDelay is the base delay for exponential backoff between attempts.
	// Default: 500ms
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the text, embedding and transcription hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.TextHost = host
		c.EmbeddingHost = host
		c.TranscriptionHost = host
	}
}

// WithTextHost sets the chat completion host URL.
func WithTextHost(host string) ConfigOption {
	return func(c *Config) {
		c.TextHost = host
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithTranscriptionHost sets the transcription service host URL.
func WithTranscriptionHost(host string) ConfigOption {
	return func(c *Config) {
		c.TranscriptionHost = host
	}
}

// WithTextModel sets the summary/question model identifier.
func WithTextModel(model string) ConfigOption {
	return func(c *Config) {
		c.TextModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithTranscriptionModel sets the transcription model identifier.
func WithTranscriptionModel(model string) ConfigOption {
	return func(c *Config) {
		c.TranscriptionModel = model
	}
}

// WithAPIKey sets the bearer token sent to every host.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithOCRLanguage sets the Tesseract language spec.
func WithOCRLanguage(lang string) ConfigOption {
	return func(c *Config) {
		c.OCRLanguage = lang
	}
}

// WithRetry sets the attempt budget and backoff base for transient failures.
func WithRetry(maxAttempts int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = maxAttempts
		c.RetryDelay = delay
	}
}

// WithRequestTimeout bounds each provider call.
func WithRequestTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, all services use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		TextHost:           defaultHost,
		TextModel:          "qwen2.5:3b",
		EmbeddingHost:      defaultHost,
		EmbeddingModel:     "embeddinggemma",
		TranscriptionHost:  defaultHost,
		TranscriptionModel: "whisper-1",
		APIKey:             "none",
		OCRLanguage:        "eng",
		RequestTimeout:     60 * time.Second,
		MaxAttempts:        3,
		RetryDelay:         500 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithTextModel("llama3.2:3b"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// RetryPolicy derives the provider call policy from the config.
func (c *Config) RetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: c.MaxAttempts,
		BaseDelay:   c.RetryDelay,
		Timeout:     c.RequestTimeout,
	}
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.TextHost = normalizeHost(c.TextHost)
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.TranscriptionHost = normalizeHost(c.TranscriptionHost)
	if c.APIKey == "" {
		c.APIKey = "none"
	}
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	// Remove trailing slash if present before adding /v1
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.TextHost == "" {
		return errors.New("ai config: TextHost is required")
	}
	if c.TextModel == "" {
		return errors.New("ai config: TextModel is required")
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.TranscriptionHost == "" {
		return errors.New("ai config: TranscriptionHost is required")
	}
	if c.TranscriptionModel == "" {
		return errors.New("ai config: TranscriptionModel is required")
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return errors.New("ai config: MaxAttempts must be between 1 and 10")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("ai config: RequestTimeout must be positive")
	}
	return nil
}
