package ai

import (
	"image"
	"time"
)

// RecognizedWord is one word found by a Recognizer.
type RecognizedWord struct {
	Text       string
	Rect       image.Rectangle
	Confidence float64
}

// AudioClip is a run of mono 16-bit linear PCM samples.
type AudioClip struct {
	SampleRate int
	Samples    []int
}

// Duration returns the playing time of the clip.
func (c AudioClip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}
