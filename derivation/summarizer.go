package derivation

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/cache"
	"github.com/Rzhan16/neuronote-ai/core"
)

const (
	// bulletPrefix starts every line of a bullets-style summary.
	bulletPrefix = "• "
	// minBulletChars is the fewest non-space characters a sentence needs to become a bullet.
	minBulletChars = 3
)

// Summarizer produces note summaries.
type Summarizer struct {
	provider ai.Summarizer
	cache    *cache.StageCache
	settings
}

// NewSummarizer creates a Summarizer on provider.
func NewSummarizer(provider ai.Summarizer, c *cache.StageCache, opts ...Option) *Summarizer {
	return &Summarizer{
		provider: provider,
		cache:    c,
		settings: newSettings(stageSummary, opts),
	}
}

// Summarize returns the summary of text in style.
// Paragraph style is the provider output trimmed; bullets style renders
// each sentence of it as a "• " line.
func (s *Summarizer) Summarize(ctx context.Context, text string, style core.SummaryStyle) (string, error) {
	if err := requireText(ctx, text); err != nil {
		return "", err
	}
	style, err := core.ParseSummaryStyle(string(style))
	if err != nil {
		return "", err
	}

	key := cache.Key(stageSummary, []byte(text), []byte(style))
	if payload, ok := s.cache.Lookup(ctx, key); ok {
		return string(payload), nil
	}

	summary, err := ai.Do(ctx, s.policy, "summarize", func(ctx context.Context) (string, error) {
		out, err := s.provider.Summarize(ctx, text)
		if err != nil {
			return "", err
		}
		return nonEmpty(out)
	})
	if err != nil {
		return "", err
	}

	if style == core.SummaryBullets {
		summary = renderBullets(summary)
		if summary == "" {
			return "", fmt.Errorf("%w: summarize: no sentence long enough for a bullet: %w",
				core.ErrProviderFailure, ai.ErrEmptyResponse)
		}
	}
	s.logger.Debug("summarized text", "style", style, "length", len(summary))

	s.cache.Store(ctx, key, []byte(summary))
	return summary, nil
}

// renderBullets puts each sentence of summary on its own bullet line.
// Sentences with fewer than minBulletChars non-space characters are dropped.
func renderBullets(summary string) string {
	var lines []string
	for _, sentence := range core.SplitSentences(summary) {
		if countNonSpace(sentence) < minBulletChars {
			continue
		}
		if !strings.ContainsRune(".!?", lastRune(sentence)) {
			sentence += "."
		}
		lines = append(lines, bulletPrefix+sentence)
	}
	return strings.Join(lines, "\n")
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func lastRune(s string) rune {
	r := []rune(strings.TrimRight(s, `"')`))
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1]
}
