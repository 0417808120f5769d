package extraction

import (
	"bytes"
	"context"
	"strings"

	"github.com/go-audio/wav"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/cache"
	"github.com/Rzhan16/neuronote-ai/core"
)

const wavFormatPCM = 1

// AudioExtractor transcribes WAV recordings.
type AudioExtractor struct {
	transcriber ai.Transcriber
	cache       *cache.StageCache
	settings
}

// NewAudioExtractor creates an AudioExtractor using transcriber for speech recognition.
func NewAudioExtractor(transcriber ai.Transcriber, c *cache.StageCache, opts ...Option) *AudioExtractor {
	return &AudioExtractor{
		transcriber: transcriber,
		cache:       c,
		settings:    newSettings(stageAudio, opts),
	}
}

// Extract decodes raw as 16-bit mono PCM WAV and returns the transcript.
// Audio is sent in fixed-length chunks whose transcripts are joined in order.
func (e *AudioExtractor) Extract(ctx context.Context, raw []byte) (*core.ExtractionResult, error) {
	key := cache.Key(stageAudio, raw, []byte(e.chunkDuration.String()))
	if payload, ok := e.cache.Lookup(ctx, key); ok {
		return &core.ExtractionResult{Text: string(payload)}, nil
	}

	clip, err := decodeWAV(raw)
	if err != nil {
		return nil, err
	}

	chunkLen := int(int64(clip.SampleRate) * int64(e.chunkDuration) / 1e9)
	if chunkLen <= 0 {
		chunkLen = len(clip.Samples)
	}

	var parts []string
	for start := 0; start < len(clip.Samples); start += chunkLen {
		end := min(start+chunkLen, len(clip.Samples))
		chunk := ai.AudioClip{SampleRate: clip.SampleRate, Samples: clip.Samples[start:end]}

		text, err := ai.Do(ctx, e.policy, "transcribe", func(ctx context.Context) (string, error) {
			return e.transcriber.Transcribe(ctx, chunk)
		})
		if err != nil {
			return nil, err
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	e.logger.Debug("transcribed audio", "duration", clip.Duration(), "chunks", (len(clip.Samples)+chunkLen-1)/chunkLen)

	res := &core.ExtractionResult{Text: strings.Join(parts, " ")}
	if err := core.ValidateExtraction(res); err != nil {
		return nil, err
	}
	e.cache.Store(ctx, key, []byte(res.Text))
	return res, nil
}

func decodeWAV(raw []byte) (ai.AudioClip, error) {
	dec := wav.NewDecoder(bytes.NewReader(raw))
	if !dec.IsValidFile() {
		return ai.AudioClip{}, core.InvalidInputf("audio is not a RIFF/WAVE file")
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return ai.AudioClip{}, core.InvalidInputf("audio format %d is not linear PCM", dec.WavAudioFormat)
	}
	if dec.NumChans != 1 || dec.BitDepth != 16 {
		return ai.AudioClip{}, core.InvalidInputf("audio must be 16-bit mono, got %d-bit with %d channels", dec.BitDepth, dec.NumChans)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return ai.AudioClip{}, core.InvalidInputf("audio could not be decoded: %v", err)
	}
	if len(buf.Data) == 0 || dec.SampleRate == 0 {
		return ai.AudioClip{}, core.InvalidInputf("audio contains no samples")
	}
	return ai.AudioClip{SampleRate: int(dec.SampleRate), Samples: buf.Data}, nil
}
