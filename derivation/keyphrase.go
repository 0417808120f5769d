package derivation

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/cache"
	"github.com/Rzhan16/neuronote-ai/core"
)

// DefaultTopTags is the number of keyphrases kept when none is requested.
const DefaultTopTags = 5

// maxCandidates bounds how many phrases are embedded for one text.
const maxCandidates = 256

// KeyphraseExtractor ranks one- and two-word phrases of a text by how close
// their embedding is to the embedding of the whole text.
type KeyphraseExtractor struct {
	embedder ai.Embedder
	cache    *cache.StageCache
	settings
}

type scoredPhrase struct {
	phrase string
	score  float32
}

// NewKeyphraseExtractor creates a KeyphraseExtractor on embedder.
func NewKeyphraseExtractor(embedder ai.Embedder, c *cache.StageCache, opts ...Option) *KeyphraseExtractor {
	return &KeyphraseExtractor{
		embedder: embedder,
		cache:    c,
		settings: newSettings(stageKeyphrases, opts),
	}
}

// Extract returns up to topN keyphrases of text, most relevant first.
// Phrases are lower-case, one or two words, and contain no stop-words.
func (k *KeyphraseExtractor) Extract(ctx context.Context, text string, topN int) ([]core.Tag, error) {
	if err := requireText(ctx, text); err != nil {
		return nil, err
	}
	if topN < 1 {
		return nil, core.InvalidInputf("top_n must be at least 1, got %d", topN)
	}

	key := cache.Key(stageKeyphrases, []byte(text), []byte(strconv.Itoa(topN)))
	if tags, ok := cache.LookupJSON[[]core.Tag](ctx, k.cache, key); ok {
		return tags, nil
	}

	candidates := candidatePhrases(text)
	if len(candidates) == 0 {
		k.logger.Debug("no keyphrase candidates")
		return []core.Tag{}, nil
	}

	vectors, err := ai.Do(ctx, k.policy, "embed", func(ctx context.Context) ([][]float32, error) {
		out, err := k.embedder.EmbedTexts(ctx, append([]string{text}, candidates...))
		if err != nil {
			return nil, err
		}
		if len(out) != len(candidates)+1 {
			return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", ai.ErrEmptyResponse, len(out), len(candidates)+1)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	doc := vectors[0]
	scored := make([]scoredPhrase, len(candidates))
	for i, phrase := range candidates {
		scored[i] = scoredPhrase{phrase: phrase, score: cosineSimilarity(doc, vectors[i+1])}
	}
	slices.SortFunc(scored, func(a, b scoredPhrase) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return strings.Compare(a.phrase, b.phrase)
		}
	})

	tags := make([]core.Tag, 0, topN)
	for _, s := range scored[:min(topN, len(scored))] {
		tags = append(tags, core.Tag(s.phrase))
	}
	tags = core.DedupeTags(tags)
	k.logger.Debug("extracted keyphrases", "candidates", len(candidates), "kept", len(tags))

	cache.StoreJSON(ctx, k.cache, key, tags)
	return tags, nil
}

// candidatePhrases returns the distinct unigrams and bigrams of text in
// first-occurrence order. Tokens are runs of letters and digits at least two
// characters long. A bigram is two adjacent tokens in the same sentence,
// neither of them a stop-word.
func candidatePhrases(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok || len(out) >= maxCandidates {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, sentence := range core.SplitSentences(text) {
		tokens := tokenize(sentence)
		for i, tok := range tokens {
			if !isContentToken(tok) {
				continue
			}
			add(tok)
			if i+1 < len(tokens) && isContentToken(tokens[i+1]) {
				add(tok + " " + tokens[i+1])
			}
		}
	}
	return out
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isContentToken(tok string) bool {
	if len([]rune(tok)) < 2 {
		return false
	}
	_, stop := stopWords[tok]
	return !stop
}
