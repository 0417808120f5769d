//go:build ocr

package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/Rzhan16/neuronote-ai/ai"
)

// Recognizer runs Tesseract word-level recognition.
// A gosseract client is not safe for concurrent use, so each call gets its own.
type Recognizer struct {
	languages []string
	logger    *slog.Logger
}

// New creates a Recognizer for a "+" separated language spec such as "eng+fra".
func New(lang string) (ai.Recognizer, error) {
	if lang == "" {
		lang = "eng"
	}
	return &Recognizer{
		languages: strings.Split(lang, "+"),
		logger:    slog.Default().With("component", "tesseract"),
	}, nil
}

// Recognize returns the words Tesseract finds in img, in reading order.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image) ([]ai.RecognizedWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.languages...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Tesseract reports boxes relative to the encoded PNG, which always starts at the origin.
	offset := img.Bounds().Min
	words := make([]ai.RecognizedWord, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		words = append(words, ai.RecognizedWord{
			Text:       text,
			Rect:       b.Box.Add(offset),
			Confidence: b.Confidence,
		})
	}
	r.logger.Debug("recognized words", "count", len(words))
	return words, nil
}
