package derivation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/ai/mock"
	"github.com/Rzhan16/neuronote-ai/cache"
	cachebadger "github.com/Rzhan16/neuronote-ai/cache/badger"
	"github.com/Rzhan16/neuronote-ai/core"
)

const biology = "Cells are the basic unit of life. Mitochondria produce ATP for the cell. " +
	"The nucleus stores genetic information. Ribosomes assemble proteins. " +
	"Photosynthesis converts light into chemical energy. Enzymes speed up reactions."

var fastRetry = WithRetryPolicy(ai.RetryPolicy{MaxAttempts: 1})

func newTestCache(t *testing.T) *cache.StageCache {
	t.Helper()
	store, err := cachebadger.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return cache.New(store)
}

func TestSummarizer_Idempotent(t *testing.T) {
	provider := mock.NewMockSummarizer()
	s := NewSummarizer(provider, newTestCache(t), fastRetry)

	first, err := s.Summarize(context.Background(), biology, core.SummaryParagraph)
	require.NoError(t, err)
	second, err := s.Summarize(context.Background(), biology, core.SummaryParagraph)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.CallCount())
}

func TestSummarizer_StyleDiscrimination(t *testing.T) {
	provider := mock.NewMockSummarizer()
	s := NewSummarizer(provider, newTestCache(t), fastRetry)
	ctx := context.Background()

	paragraph, err := s.Summarize(ctx, biology, core.SummaryParagraph)
	require.NoError(t, err)
	bullets, err := s.Summarize(ctx, biology, core.SummaryBullets)
	require.NoError(t, err)

	assert.Equal(t, 2, provider.CallCount(), "styles must not share a cache entry")
	assert.NotEqual(t, paragraph, bullets)
	lines := strings.Split(bullets, "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "• "), line)
	}
}

func TestSummarizer_Validation(t *testing.T) {
	s := NewSummarizer(mock.NewMockSummarizer(), nil, fastRetry)

	_, err := s.Summarize(context.Background(), "  ", core.SummaryParagraph)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = s.Summarize(context.Background(), biology, core.SummaryStyle("haiku"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSummarizer_ProviderFailure(t *testing.T) {
	provider := mock.NewMockSummarizer().WithSummarizeFunc(func(context.Context, string) (string, error) {
		return "", errors.New("model offline")
	})
	s := NewSummarizer(provider, nil, fastRetry)

	_, err := s.Summarize(context.Background(), biology, core.SummaryParagraph)
	assert.ErrorIs(t, err, core.ErrProviderFailure)
}

func TestSummarizer_EmptyOutputNotCached(t *testing.T) {
	calls := 0
	provider := mock.NewMockSummarizer().WithSummarizeFunc(func(context.Context, string) (string, error) {
		calls++
		if calls == 1 {
			return "  ", nil
		}
		return "Cells matter.", nil
	})
	s := NewSummarizer(provider, newTestCache(t), fastRetry)

	_, err := s.Summarize(context.Background(), biology, core.SummaryParagraph)
	assert.ErrorIs(t, err, core.ErrProviderFailure)
	got, err := s.Summarize(context.Background(), biology, core.SummaryParagraph)
	require.NoError(t, err)
	assert.Equal(t, "Cells matter.", got)
}

func TestRenderBullets(t *testing.T) {
	got := renderBullets("Cells divide. OK. Mitochondria make ATP! x. They grow")
	assert.Equal(t, "• Cells divide.\n• OK.\n• Mitochondria make ATP!\n• They grow.", got)
}

func TestSummarizer_BulletsWithNoUsableSentence(t *testing.T) {
	provider := mock.NewMockSummarizer().WithSummarizeFunc(func(ctx context.Context, text string) (string, error) {
		return "A. B. C.", nil
	})
	s := NewSummarizer(provider, newTestCache(t), fastRetry)
	ctx := context.Background()

	out, err := s.Summarize(ctx, biology, core.SummaryBullets)
	assert.Empty(t, out)
	assert.ErrorIs(t, err, core.ErrProviderFailure)
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)

	_, err = s.Summarize(ctx, biology, core.SummaryBullets)
	assert.Error(t, err)
	assert.Equal(t, 2, provider.CallCount(), "an empty summary must not be cached")
}

func TestQuestionGenerator_Count(t *testing.T) {
	tests := []struct {
		name string
		max  int
		want int
	}{
		{"fewer than sentences", 3, 3},
		{"equal to sentences", 6, 6},
		{"more than sentences", 10, 6},
		{"one", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := mock.NewMockQuestionWriter()
			g := NewQuestionGenerator(writer, nil, fastRetry)

			cards, err := g.Generate(context.Background(), biology, tt.max)
			require.NoError(t, err)
			assert.Len(t, cards, tt.want)
			assert.Equal(t, tt.want, writer.CallCount())
			assert.Equal(t, "Cells are the basic unit of life.", cards[0].Answer)
			for _, c := range cards {
				assert.True(t, strings.HasSuffix(c.Question, "?"))
			}
		})
	}
}

func TestQuestionGenerator_CacheKeyIncludesMax(t *testing.T) {
	writer := mock.NewMockQuestionWriter()
	g := NewQuestionGenerator(writer, newTestCache(t), fastRetry)
	ctx := context.Background()

	small, err := g.Generate(ctx, biology, 2)
	require.NoError(t, err)
	require.Len(t, small, 2)

	large, err := g.Generate(ctx, biology, 5)
	require.NoError(t, err)
	assert.Len(t, large, 5, "a smaller cached result must not satisfy a larger request")
	assert.Equal(t, 7, writer.CallCount())

	again, err := g.Generate(ctx, biology, 5)
	require.NoError(t, err)
	assert.Equal(t, large, again)
	assert.Equal(t, 7, writer.CallCount())
}

func TestQuestionGenerator_Validation(t *testing.T) {
	g := NewQuestionGenerator(mock.NewMockQuestionWriter(), nil, fastRetry)

	_, err := g.Generate(context.Background(), biology, 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = g.Generate(context.Background(), "\n", 3)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestKeyphraseExtractor(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	k := NewKeyphraseExtractor(embedder, newTestCache(t), fastRetry)
	ctx := context.Background()

	tags, err := k.Extract(ctx, biology, 5)
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	assert.LessOrEqual(t, len(tags), 5)

	seen := map[core.Tag]bool{}
	for _, tag := range tags {
		assert.False(t, seen[tag], "duplicate tag %q", tag)
		seen[tag] = true

		words := strings.Fields(string(tag))
		assert.True(t, len(words) == 1 || len(words) == 2, "tag %q", tag)
		for _, w := range words {
			_, stop := stopWords[w]
			assert.False(t, stop, "tag %q contains stop-word %q", tag, w)
		}
		assert.Equal(t, strings.ToLower(string(tag)), string(tag))
	}

	again, err := k.Extract(ctx, biology, 5)
	require.NoError(t, err)
	assert.Equal(t, tags, again)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestKeyphraseExtractor_Edges(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	k := NewKeyphraseExtractor(embedder, nil, fastRetry)

	tags, err := k.Extract(context.Background(), "It is what it is.", 5)
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Equal(t, 0, embedder.CallCount())

	_, err = k.Extract(context.Background(), biology, 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCandidatePhrases(t *testing.T) {
	got := candidatePhrases("The Krebs cycle runs in mitochondria. Krebs cycle again!")
	assert.Equal(t, []string{"krebs", "krebs cycle", "cycle", "cycle runs", "runs", "mitochondria"}, got)
}
