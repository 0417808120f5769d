package mock

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rzhan16/neuronote-ai/ai"
)

func TestMockRecognizer_Regions(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 60))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	black := &image.Uniform{C: color.Black}
	draw.Draw(img, image.Rect(10, 10, 30, 20), black, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(50, 10, 70, 20), black, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(10, 40, 90, 50), black, image.Point{}, draw.Src)

	words, err := NewMockRecognizer().Recognize(context.Background(), img)
	require.NoError(t, err)
	require.Len(t, words, 3)
	assert.Equal(t, "region1", words[0].Text)
	assert.Equal(t, image.Rect(10, 10, 30, 20), words[0].Rect)
	assert.Equal(t, image.Rect(50, 10, 70, 20), words[1].Rect)
	assert.Equal(t, image.Rect(10, 40, 90, 50), words[2].Rect)
}

func TestMockRecognizer_Blank(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	m := NewMockRecognizer()
	words, err := m.Recognize(context.Background(), img)
	require.NoError(t, err)
	assert.Empty(t, words)
	assert.Equal(t, 1, m.CallCount())
}

func TestMockEmbedder_Similarity(t *testing.T) {
	m := NewMockEmbedder()
	vecs, err := m.EmbedTexts(context.Background(), []string{"cell biology", "Cell biology!", "stock market"})
	require.NoError(t, err)

	dot := func(a, b []float32) float32 {
		var s float32
		for i := range a {
			s += a[i] * b[i]
		}
		return s
	}
	assert.InDelta(t, 1.0, dot(vecs[0], vecs[1]), 1e-5)
	assert.InDelta(t, 1.0, dot(vecs[0], vecs[0]), 1e-5)
	assert.Less(t, dot(vecs[0], vecs[2]), float32(0.99))
	assert.Equal(t, 1, m.CallCount())
}

func TestMockTranscriber_Default(t *testing.T) {
	m := NewMockTranscriber()
	got, err := m.Transcribe(context.Background(), ai.AudioClip{SampleRate: 16000, Samples: make([]int, 16000)})
	require.NoError(t, err)
	assert.Equal(t, "This recording segment lasts 1.0 seconds.", got)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	_, err := p.Summarizer().Summarize(context.Background(), "One. Two. Three. Four.")
	require.NoError(t, err)
	assert.Equal(t, 1, p.GetMockSummarizer().CallCount())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())
}
