package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Rzhan16/neuronote-ai/ai"
)

// Transcriber implements ai.Transcriber against the OpenAI-compatible
// /audio/transcriptions endpoint (OpenAI, faster-whisper-server, LocalAI).
type Transcriber struct {
	client   *http.Client
	endpoint string
	model    string
	apiKey   string
	logger   *slog.Logger
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func newTranscriber(config *ai.Config) (*Transcriber, error) {
	return &Transcriber{
		client:   &http.Client{},
		endpoint: strings.TrimSuffix(config.TranscriptionHost, "/") + "/audio/transcriptions",
		model:    config.TranscriptionModel,
		apiKey:   config.APIKey,
		logger:   slog.Default().With("component", "openai-transcriber"),
	}, nil
}

// NewTranscriber creates a transcriber using the provided configuration.
func NewTranscriber(config *ai.Config) (ai.Transcriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newTranscriber(config)
}

// Transcribe uploads clip as a 16-bit mono WAV file and returns the transcript.
// Rate limiting and server errors are marked transient.
func (t *Transcriber) Transcribe(ctx context.Context, clip ai.AudioClip) (string, error) {
	audioBytes, err := encodeWAV(clip)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audioBytes); err != nil {
		return "", err
	}
	if err := form.WriteField("model", t.model); err != nil {
		return "", err
	}
	if err := form.WriteField("response_format", "json"); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	t.logger.Debug("transcribing clip", "duration", clip.Duration(), "bytes", len(audioBytes))
	resp, err := t.client.Do(req)
	if err != nil {
		return "", markTransport(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", ai.MarkTransient(err)
	}
	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("transcription endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", ai.MarkTransient(statusErr)
		}
		return "", statusErr
	}

	var out transcriptionResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}

// markTransport marks transport failures other than caller cancellation as transient.
func markTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return ai.MarkTransient(err)
}

// encodeWAV renders clip as a WAV file. The encoder needs a seekable writer
// to back-patch the header sizes, so it goes through a temp file.
func encodeWAV(clip ai.AudioClip) ([]byte, error) {
	f, err := os.CreateTemp("", "neuronote-*.wav")
	if err != nil {
		return nil, err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	enc := wav.NewEncoder(f, clip.SampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: clip.SampleRate},
		Data:           clip.Samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode audio: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize audio: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}
