package derivation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/core"
)

// Cache stage names. They prefix cache keys, so changing one invalidates its entries.
const (
	stageSummary    = "summary"
	stageKeyphrases = "keyphrases"
	stageQuestions  = "qa"
)

type settings struct {
	policy ai.RetryPolicy
	logger *slog.Logger
}

// Option configures a derivation stage.
type Option func(*settings)

// WithRetryPolicy sets the policy for provider calls.
func WithRetryPolicy(p ai.RetryPolicy) Option {
	return func(s *settings) {
		s.policy = p
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
		policy: ai.DefaultRetryPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.logger = s.logger.With("stage", stage)
	return s
}

func requireText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return core.InvalidInputf("%v", core.ErrEmptyContent)
	}
	return nil
}

// nonEmpty rejects blank provider output so it is never cached.
func nonEmpty(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ai.ErrEmptyResponse
	}
	return s, nil
}
