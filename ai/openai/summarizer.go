package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/Rzhan16/neuronote-ai/ai"
)

// Summarizer implements ai.Summarizer using an OpenAI-compatible chat API.
type Summarizer struct {
	client llms.Model
	logger *slog.Logger
}

func newSummarizer(config *ai.Config) (*Summarizer, error) {
	client, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		client: client,
		logger: slog.Default().With("component", "openai-summarizer"),
	}, nil
}

// NewSummarizer creates a summarizer using the provided configuration.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newSummarizer(config)
}

// Summarize returns a prose summary of text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	s.logger.Debug("summarizing text", "length", len(text))

	response, err := complete(ctx, s.client, summarySystemPrompt, text)
	if err != nil {
		s.logger.Error("failed to generate summary", "err", err)
		return "", err
	}

	summary := collapseWhitespace(stripFences(response))
	summary = strings.Trim(summary, `"`)
	if summary == "" {
		return "", ai.ErrEmptyResponse
	}
	return summary, nil
}
