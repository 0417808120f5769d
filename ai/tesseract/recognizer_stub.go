//go:build !ocr

package tesseract

import (
	"context"
	"image"

	"github.com/Rzhan16/neuronote-ai/ai"
)

// Recognizer is the stand-in used when the binary is built without the ocr tag.
type Recognizer struct{}

// New returns a Recognizer whose calls fail with ai.ErrOCRNotEnabled.
// To enable OCR, rebuild with: go build -tags ocr
func New(lang string) (ai.Recognizer, error) {
	return &Recognizer{}, nil
}

// Recognize returns ai.ErrOCRNotEnabled.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image) ([]ai.RecognizedWord, error) {
	return nil, ai.ErrOCRNotEnabled
}
