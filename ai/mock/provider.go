// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/Rzhan16/neuronote-ai/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates one mock of each service.
type MockProvider struct {
	summarizer  *MockSummarizer
	questions   *MockQuestionWriter
	embedder    *MockEmbedder
	recognizer  *MockRecognizer
	transcriber *MockTranscriber
	closed      bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns *MockProvider so tests can reach the concrete mocks through the
// GetMockX accessors.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		summarizer:  NewMockSummarizer(),
		questions:   NewMockQuestionWriter(),
		embedder:    NewMockEmbedder(),
		recognizer:  NewMockRecognizer(),
		transcriber: NewMockTranscriber(),
	}
}

// Summarizer returns the mock summarizer.
func (p *MockProvider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// QuestionWriter returns the mock question writer.
func (p *MockProvider) QuestionWriter() ai.QuestionWriter {
	return p.questions
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Recognizer returns the mock recognizer.
func (p *MockProvider) Recognizer() ai.Recognizer {
	return p.recognizer
}

// Transcriber returns the mock transcriber.
func (p *MockProvider) Transcriber() ai.Transcriber {
	return p.transcriber
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockSummarizer returns the underlying mock summarizer for test assertions.
func (p *MockProvider) GetMockSummarizer() *MockSummarizer {
	return p.summarizer
}

// GetMockQuestionWriter returns the underlying mock question writer for test assertions.
func (p *MockProvider) GetMockQuestionWriter() *MockQuestionWriter {
	return p.questions
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockRecognizer returns the underlying mock recognizer for test assertions.
func (p *MockProvider) GetMockRecognizer() *MockRecognizer {
	return p.recognizer
}

// GetMockTranscriber returns the underlying mock transcriber for test assertions.
func (p *MockProvider) GetMockTranscriber() *MockTranscriber {
	return p.transcriber
}
