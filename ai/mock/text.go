package mock

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/Rzhan16/neuronote-ai/core"
)

// MockSummarizer is a test double for ai.Summarizer.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, the first three sentences of the input are returned.
	SummarizeFunc func(ctx context.Context, text string) (string, error)

	callCount atomic.Int64
}

// NewMockSummarizer creates a mock summarizer with default behavior.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// WithSummarizeFunc replaces the default behavior and returns the mock.
func (m *MockSummarizer) WithSummarizeFunc(fn func(ctx context.Context, text string) (string, error)) *MockSummarizer {
	m.SummarizeFunc = fn
	return m
}

// Summarize returns a deterministic extractive summary.
func (m *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	m.callCount.Add(1)

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text)
	}
	sentences := core.SplitSentences(text)
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	return strings.Join(sentences, " "), nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockSummarizer) Reset() {
	m.callCount.Store(0)
	m.SummarizeFunc = nil
}

// MockQuestionWriter is a test double for ai.QuestionWriter.
type MockQuestionWriter struct {
	// WriteQuestionFunc is called by WriteQuestion if set.
	WriteQuestionFunc func(ctx context.Context, sentence string) (string, error)

	callCount atomic.Int64
}

// NewMockQuestionWriter creates a mock question writer with default behavior.
func NewMockQuestionWriter() *MockQuestionWriter {
	return &MockQuestionWriter{}
}

// WithWriteQuestionFunc replaces the default behavior and returns the mock.
func (m *MockQuestionWriter) WithWriteQuestionFunc(fn func(ctx context.Context, sentence string) (string, error)) *MockQuestionWriter {
	m.WriteQuestionFunc = fn
	return m
}

// WriteQuestion returns a question quoting the start of the sentence.
func (m *MockQuestionWriter) WriteQuestion(ctx context.Context, sentence string) (string, error) {
	m.callCount.Add(1)

	if m.WriteQuestionFunc != nil {
		return m.WriteQuestionFunc(ctx, sentence)
	}
	words := strings.Fields(sentence)
	if len(words) > 5 {
		words = words[:5]
	}
	return fmt.Sprintf("What do your notes say about %q?", strings.Join(words, " ")), nil
}

// CallCount returns the number of times WriteQuestion was called.
func (m *MockQuestionWriter) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockQuestionWriter) Reset() {
	m.callCount.Store(0)
	m.WriteQuestionFunc = nil
}
