package mock

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"

	"github.com/Rzhan16/neuronote-ai/ai"
)

// darkThreshold is the 8-bit luminance below which a pixel counts as ink.
const darkThreshold = 128

// MockRecognizer is a test double for ai.Recognizer.
//
// The default behavior treats every connected run of dark pixels as a word:
// rows containing ink are grouped into bands, and each band is split into
// runs of inked columns. Words are named region1, region2, ... in reading order.
type MockRecognizer struct {
	// RecognizeFunc is called by Recognize if set.
	RecognizeFunc func(ctx context.Context, img image.Image) ([]ai.RecognizedWord, error)

	callCount atomic.Int64
}

// NewMockRecognizer creates a mock recognizer with default behavior.
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{}
}

// WithRecognizeFunc replaces the default behavior and returns the mock.
func (m *MockRecognizer) WithRecognizeFunc(fn func(ctx context.Context, img image.Image) ([]ai.RecognizedWord, error)) *MockRecognizer {
	m.RecognizeFunc = fn
	return m
}

// Recognize segments dark regions of img into words.
func (m *MockRecognizer) Recognize(ctx context.Context, img image.Image) ([]ai.RecognizedWord, error) {
	m.callCount.Add(1)

	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx, img)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	dark := func(x, y int) bool {
		return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < darkThreshold
	}

	var words []ai.RecognizedWord
	for _, band := range runs(b.Min.Y, b.Max.Y, func(y int) bool {
		for x := b.Min.X; x < b.Max.X; x++ {
			if dark(x, y) {
				return true
			}
		}
		return false
	}) {
		for _, col := range runs(b.Min.X, b.Max.X, func(x int) bool {
			for y := band[0]; y < band[1]; y++ {
				if dark(x, y) {
					return true
				}
			}
			return false
		}) {
			words = append(words, ai.RecognizedWord{
				Text:       fmt.Sprintf("region%d", len(words)+1),
				Rect:       image.Rect(col[0], band[0], col[1], band[1]),
				Confidence: 90,
			})
		}
	}
	return words, nil
}

// CallCount returns the number of times Recognize was called.
func (m *MockRecognizer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockRecognizer) Reset() {
	m.callCount.Store(0)
	m.RecognizeFunc = nil
}

// runs returns the half-open [start, end) intervals of [lo, hi) where set holds.
func runs(lo, hi int, set func(int) bool) [][2]int {
	var out [][2]int
	start := -1
	for i := lo; i < hi; i++ {
		switch on := set(i); {
		case on && start < 0:
			start = i
		case !on && start >= 0:
			out = append(out, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, [2]int{start, hi})
	}
	return out
}

// MockTranscriber is a test double for ai.Transcriber.
type MockTranscriber struct {
	// TranscribeFunc is called by Transcribe if set.
	// If nil, a sentence describing the clip length is returned.
	TranscribeFunc func(ctx context.Context, clip ai.AudioClip) (string, error)

	callCount atomic.Int64
}

// NewMockTranscriber creates a mock transcriber with default behavior.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

// WithTranscribeFunc replaces the default behavior and returns the mock.
func (m *MockTranscriber) WithTranscribeFunc(fn func(ctx context.Context, clip ai.AudioClip) (string, error)) *MockTranscriber {
	m.TranscribeFunc = fn
	return m
}

// Transcribe returns a deterministic, non-empty transcript.
func (m *MockTranscriber) Transcribe(ctx context.Context, clip ai.AudioClip) (string, error) {
	m.callCount.Add(1)

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, clip)
	}
	return fmt.Sprintf("This recording segment lasts %.1f seconds.", clip.Duration().Seconds()), nil
}

// CallCount returns the number of times Transcribe was called.
func (m *MockTranscriber) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockTranscriber) Reset() {
	m.callCount.Store(0)
	m.TranscribeFunc = nil
}
