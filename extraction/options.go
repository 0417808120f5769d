package extraction

import (
	"log/slog"
	"time"

	"github.com/Rzhan16/neuronote-ai/ai"
)

const (
	// DefaultMaxFrames bounds how many frames of a multi-frame image are read.
	DefaultMaxFrames = 2
	// DefaultChunkDuration is the length of audio sent per transcription call.
	DefaultChunkDuration = 30 * time.Second
)

// Cache stage names. They prefix cache keys, so changing one invalidates its entries.
const (
	stageImage = "extract:image"
	stageAudio = "extract:audio"
)

type settings struct {
	policy        ai.RetryPolicy
	maxFrames     int
	chunkDuration time.Duration
	logger        *slog.Logger
}

// Option configures an extractor.
type Option func(*settings)

// WithRetryPolicy sets the policy for provider calls.
func WithRetryPolicy(p ai.RetryPolicy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithMaxFrames sets how many image frames are processed.
func WithMaxFrames(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxFrames = n
		}
	}
}

// WithChunkDuration sets the audio transcription chunk length.
func WithChunkDuration(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.chunkDuration = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newSettings(stage string, opts []Option) settings {
	s := settings{
		policy:        ai.DefaultRetryPolicy(),
		maxFrames:     DefaultMaxFrames,
		chunkDuration: DefaultChunkDuration,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.logger = s.logger.With("stage", stage)
	return s
}
