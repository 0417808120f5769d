package extraction

import (
	"context"
	"fmt"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/cache"
	"github.com/Rzhan16/neuronote-ai/core"
)

// Extractor turns raw content of one category into canonical text.
type Extractor interface {
	Extract(ctx context.Context, raw []byte) (*core.ExtractionResult, error)
}

// Extractors dispatches over the closed set of content categories.
type Extractors struct {
	Image Extractor
	Audio Extractor
	Text  Extractor
}

// NewExtractors builds the standard extractor set on provider's services.
func NewExtractors(provider ai.AIProvider, c *cache.StageCache, opts ...Option) *Extractors {
	return &Extractors{
		Image: NewImageExtractor(provider.Recognizer(), c, opts...),
		Audio: NewAudioExtractor(provider.Transcriber(), c, opts...),
		Text:  NewTextPassthrough(),
	}
}

// For returns the extractor for category.
// CategoryUnsupported yields core.ErrInvalidInput.
func (e *Extractors) For(category core.Category) (Extractor, error) {
	var ex Extractor
	switch category {
	case core.CategoryImage:
		ex = e.Image
	case core.CategoryAudio:
		ex = e.Audio
	case core.CategoryText:
		ex = e.Text
	default:
		return nil, core.InvalidInputf("unsupported content type")
	}
	if ex == nil {
		return nil, fmt.Errorf("no extractor configured for %s content", category)
	}
	return ex, nil
}

// Extract classifies raw and runs the matching extractor.
func (e *Extractors) Extract(ctx context.Context, raw []byte) (core.Category, *core.ExtractionResult, error) {
	category := Classify(raw)
	ex, err := e.For(category)
	if err != nil {
		return category, nil, err
	}
	res, err := ex.Extract(ctx, raw)
	return category, res, err
}
