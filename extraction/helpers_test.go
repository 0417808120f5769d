package extraction

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"github.com/Rzhan16/neuronote-ai/cache"
	cachebadger "github.com/Rzhan16/neuronote-ai/cache/badger"
)

// newTestCache returns a StageCache over an in-memory Badger store.
func newTestCache(t *testing.T) *cache.StageCache {
	t.Helper()
	store, err := cachebadger.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return cache.New(store)
}

// regionsPNG renders black rectangles on a white canvas.
func regionsPNG(t *testing.T, w, h int, rects ...image.Rectangle) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	for _, r := range rects {
		draw.Draw(img, r, &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fiveRegions are five separated text-like rectangles on a 400x200 canvas.
var fiveRegions = []image.Rectangle{
	image.Rect(20, 20, 120, 40),
	image.Rect(160, 20, 300, 40),
	image.Rect(20, 80, 200, 100),
	image.Rect(240, 80, 380, 100),
	image.Rect(20, 140, 360, 160),
}

// framesGIF encodes n frames, each with one black rectangle.
func framesGIF(t *testing.T, n int) []byte {
	t.Helper()
	palette := color.Palette{color.White, color.Black}
	g := &gif.GIF{}
	for i := 0; i < n; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, 100, 50), palette)
		draw.Draw(frame, image.Rect(10+i*10, 10, 40+i*10, 30), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 10)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}

// toneWAV synthesizes a sine tone as 16-bit PCM WAV.
func toneWAV(t *testing.T, seconds float64, sampleRate, channels int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	frames := int(seconds * float64(sampleRate))
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		v := int(math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)) * 12000)
		for c := 0; c < channels; c++ {
			data[i*channels+c] = v
		}
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}
