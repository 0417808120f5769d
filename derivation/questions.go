package derivation

import (
	"context"
	"strconv"
	"strings"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/cache"
	"github.com/Rzhan16/neuronote-ai/core"
)

// DefaultMaxQuestions is the number of cards generated when none is requested.
const DefaultMaxQuestions = 5

// QuestionGenerator turns the leading sentences of a text into study cards.
type QuestionGenerator struct {
	writer ai.QuestionWriter
	cache  *cache.StageCache
	settings
}

// NewQuestionGenerator creates a QuestionGenerator on writer.
func NewQuestionGenerator(writer ai.QuestionWriter, c *cache.StageCache, opts ...Option) *QuestionGenerator {
	return &QuestionGenerator{
		writer:   writer,
		cache:    c,
		settings: newSettings(stageQuestions, opts),
	}
}

// Generate returns min(maxQuestions, sentence count) cards in sentence order.
// Each answer is its sentence, trimmed.
func (g *QuestionGenerator) Generate(ctx context.Context, text string, maxQuestions int) ([]core.QuizCard, error) {
	if err := requireText(ctx, text); err != nil {
		return nil, err
	}
	if maxQuestions < 1 {
		return nil, core.InvalidInputf("max_questions must be at least 1, got %d", maxQuestions)
	}

	key := cache.Key(stageQuestions, []byte(text), []byte(strconv.Itoa(maxQuestions)))
	if cards, ok := cache.LookupJSON[[]core.QuizCard](ctx, g.cache, key); ok {
		return cards, nil
	}

	sentences := core.SplitSentences(text)
	if len(sentences) > maxQuestions {
		sentences = sentences[:maxQuestions]
	}

	cards := make([]core.QuizCard, 0, len(sentences))
	for _, sentence := range sentences {
		answer := strings.TrimSpace(sentence)
		question, err := ai.Do(ctx, g.policy, "question", func(ctx context.Context) (string, error) {
			out, err := g.writer.WriteQuestion(ctx, answer)
			if err != nil {
				return "", err
			}
			return nonEmpty(out)
		})
		if err != nil {
			return nil, err
		}
		cards = append(cards, core.QuizCard{Question: question, Answer: answer})
	}
	g.logger.Debug("generated questions", "cards", len(cards), "max", maxQuestions)

	cache.StoreJSON(ctx, g.cache, key, cards)
	return cards, nil
}
