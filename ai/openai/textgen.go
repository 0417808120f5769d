package openai

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/Rzhan16/neuronote-ai/ai"
)

// newChatModel builds the langchaingo chat client shared by the text services.
func newChatModel(config *ai.Config) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(config.TextHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.TextModel),
	)
}

// complete sends a system and user prompt and returns the first choice.
func complete(ctx context.Context, model llms.Model, system, user string, opts ...llms.CallOption) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	opts = append([]llms.CallOption{llms.WithTemperature(0.0)}, opts...)
	response, err := model.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ai.ErrEmptyResponse
	}
	return response.Choices[0].Content, nil
}

// stripFences removes markdown code fences some models wrap around output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], " {") {
		// language tag such as ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// collapseWhitespace joins lines and runs of spaces into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
