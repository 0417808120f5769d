package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rzhan16/neuronote-ai/ai"
)

func chatServer(t *testing.T, content string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "unexpected path %s", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(host string) *ai.Config {
	return ai.NewConfig(ai.WithHost(host), ai.WithTextModel("test-model"))
}

func TestSummarizer(t *testing.T) {
	srv, calls := chatServer(t, "```\nCells are the unit\n of life.\n```")

	s, err := NewSummarizer(testConfig(srv.URL))
	require.NoError(t, err)

	got, err := s.Summarize(context.Background(), "Cells are the basic unit of life.")
	require.NoError(t, err)
	assert.Equal(t, "Cells are the unit of life.", got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQuestionWriter(t *testing.T) {
	t.Run("parses json", func(t *testing.T) {
		srv, _ := chatServer(t, `{"question": "What do mitochondria produce?"}`)
		w, err := NewQuestionWriter(testConfig(srv.URL))
		require.NoError(t, err)

		got, err := w.WriteQuestion(context.Background(), "Mitochondria produce ATP.")
		require.NoError(t, err)
		assert.Equal(t, "What do mitochondria produce?", got)
	})

	t.Run("repairs and adds question mark", func(t *testing.T) {
		srv, _ := chatServer(t, "Sure! {question\": \"Name the powerhouse of the cell\",}")
		w, err := NewQuestionWriter(testConfig(srv.URL))
		require.NoError(t, err)

		got, err := w.WriteQuestion(context.Background(), "The mitochondrion is the powerhouse of the cell.")
		require.NoError(t, err)
		assert.Equal(t, "Name the powerhouse of the cell?", got)
	})

	t.Run("gives up on garbage", func(t *testing.T) {
		srv, calls := chatServer(t, "no json here")
		w, err := NewQuestionWriter(testConfig(srv.URL))
		require.NoError(t, err)

		_, err = w.WriteQuestion(context.Background(), "x")
		require.Error(t, err)
		assert.Equal(t, int32(parseAttempts), calls.Load())
	})
}

func TestTranscriber(t *testing.T) {
	clip := ai.AudioClip{SampleRate: 16000, Samples: make([]int, 1600)}
	for i := range clip.Samples {
		clip.Samples[i] = (i % 40) * 100
	}

	t.Run("uploads wav and returns text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
			assert.Equal(t, "Bearer none", r.Header.Get("Authorization"))
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "whisper-1", r.FormValue("model"))

			f, _, err := r.FormFile("file")
			require.NoError(t, err)
			data, err := io.ReadAll(f)
			require.NoError(t, err)

			dec := wav.NewDecoder(bytes.NewReader(data))
			require.True(t, dec.IsValidFile())
			buf, err := dec.FullPCMBuffer()
			require.NoError(t, err)
			assert.Equal(t, 1, buf.Format.NumChannels)
			assert.Equal(t, 16000, buf.Format.SampleRate)
			assert.Len(t, buf.Data, len(clip.Samples))

			fmt.Fprint(w, `{"text": "  hello world "}`)
		}))
		defer srv.Close()

		tr, err := NewTranscriber(testConfig(srv.URL))
		require.NoError(t, err)

		got, err := tr.Transcribe(context.Background(), clip)
		require.NoError(t, err)
		assert.Equal(t, "hello world", got)
	})

	t.Run("server errors are transient", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		tr, err := NewTranscriber(testConfig(srv.URL))
		require.NoError(t, err)

		_, err = tr.Transcribe(context.Background(), clip)
		require.Error(t, err)
		assert.True(t, ai.IsTransient(err))
	})

	t.Run("client errors are permanent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unknown model", http.StatusBadRequest)
		}))
		defer srv.Close()

		tr, err := NewTranscriber(testConfig(srv.URL))
		require.NoError(t, err)

		_, err = tr.Transcribe(context.Background(), clip)
		require.Error(t, err)
		assert.False(t, ai.IsTransient(err))
		assert.Contains(t, err.Error(), "400")
	})
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid", `{"question": "a?"}`, `{"question": "a?"}`},
		{"surrounding prose", `Here you go: {"question": "a?"} hope it helps`, `{"question": "a?"}`},
		{"missing key quote", `{question": "a?"}`, `{"question": "a?"}`},
		{"trailing comma", `{"question": "a?", }`, `{"question": "a?" }`},
		{"comma inside string kept", `{"question": "a, b?"}`, `{"question": "a, b?"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.in))
		})
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", stripFences("  plain "))
	assert.Equal(t, "text", stripFences("```\ntext\n```"))
}
