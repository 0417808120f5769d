// Package mock provides deterministic test doubles for the ai interfaces.
//
// Every mock counts its calls with an atomic counter, so it is safe to share
// across the goroutines of a running pipeline, and exposes a function field
// to replace its default behavior:
//
//	summarizer := mock.NewMockSummarizer().
//	    WithSummarizeFunc(func(ctx context.Context, text string) (string, error) {
//	        return "", errors.New("model offline")
//	    })
//
//	// Check call counts
//	count := summarizer.CallCount()
//
// # Default Behavior
//
//   - MockSummarizer: Returns the first three sentences of the input
//   - MockQuestionWriter: Quotes the first words of the sentence in a question
//   - MockEmbedder: Returns hashed bag-of-words unit vectors
//   - MockRecognizer: Reports each connected run of dark pixels as a word
//   - MockTranscriber: Describes the clip length in one sentence
//   - MockProvider: Aggregates one of each
package mock

import "github.com/Rzhan16/neuronote-ai/ai"

var (
	_ ai.AIProvider     = (*MockProvider)(nil)
	_ ai.Summarizer     = (*MockSummarizer)(nil)
	_ ai.QuestionWriter = (*MockQuestionWriter)(nil)
	_ ai.Embedder       = (*MockEmbedder)(nil)
	_ ai.Recognizer     = (*MockRecognizer)(nil)
	_ ai.Transcriber    = (*MockTranscriber)(nil)
)
