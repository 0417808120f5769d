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


package openai

import (
	"log/slog"

	"github.com/Rzhan16/neuronote-ai/ai"
	"github.com/Rzhan16/neuronote-ai/ai/tesseract"
)

// Provider implements ai.AIProvider using OpenAI-compatible services for
// text and audio, and Tesseract for OCR.
type Provider struct {
	config      *ai.Config
	summarizer  *Summarizer
	questions   *QuestionWriter
	embedder    *Embedder
	transcriber *Transcriber
	recognizer  ai.Recognizer
	logger      *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	summarizer, err := newSummarizer(config)
	if err != nil {
		return nil, err
	}

	questions, err := newQuestionWriter(config)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	transcriber, err := newTranscriber(config)
	if err != nil {
		return nil, err
	}

	recognizer, err := tesseract.New(config.OCRLanguage)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:      config,
		summarizer:  summarizer,
		questions:   questions,
		embedder:    embedder,
		transcriber: transcriber,
		recognizer:  recognizer,
		logger:      slog.Default().With("component", "openai-provider"),
	}, nil
}

// Summarizer returns the summarization service.
func (p *Provider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// QuestionWriter returns the question generation service.
func (p *Provider) QuestionWriter() ai.QuestionWriter {
	return p.questions
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Recognizer returns the OCR service.
func (p *Provider) Recognizer() ai.Recognizer {
	return p.recognizer
}

// Transcriber returns the speech recognition service.
func (p *Provider) Transcriber() ai.Transcriber {
	return p.transcriber
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	p.transcriber.client.CloseIdleConnections()
	return nil
}
