package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/Rzhan16/neuronote-ai/ai"
)

// parseAttempts is how many completions are requested before giving up on
// malformed JSON.
const parseAttempts = 3

// QuestionWriter implements ai.QuestionWriter using an OpenAI-compatible chat API.
type QuestionWriter struct {
	client llms.Model
	logger *slog.Logger
}

// question is the JSON shape the model is asked to produce.
type question struct {
	Question string `json:"question"`
}

func newQuestionWriter(config *ai.Config) (*QuestionWriter, error) {
	client, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return &QuestionWriter{
		client: client,
		logger: slog.Default().With("component", "openai-questions"),
	}, nil
}

// NewQuestionWriter creates a question writer using the provided configuration.
func NewQuestionWriter(config *ai.Config) (ai.QuestionWriter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newQuestionWriter(config)
}

// WriteQuestion asks the model for a question answered by sentence.
func (w *QuestionWriter) WriteQuestion(ctx context.Context, sentence string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= parseAttempts; attempt++ {
		response, err := complete(ctx, w.client, questionSystemPrompt, sentence, llms.WithJSONMode())
		if err != nil {
			w.logger.Error("failed to generate question", "attempt", attempt, "err", err)
			return "", err
		}

		var q question
		body := repairJSON(stripFences(response))
		if err := json.Unmarshal([]byte(body), &q); err != nil {
			lastErr = err
			w.logger.Warn("error parsing question response", "attempt", attempt, "response", body, "err", err)
			continue
		}

		text := collapseWhitespace(q.Question)
		if text == "" {
			lastErr = ai.ErrEmptyResponse
			continue
		}
		if !strings.HasSuffix(text, "?") {
			text = strings.TrimRight(text, ".!") + "?"
		}
		return text, nil
	}
	return "", fmt.Errorf("unusable question response after %d attempts: %w", parseAttempts, lastErr)
}
