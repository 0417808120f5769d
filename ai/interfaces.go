package ai

import (
	"context"
	"image"
)

// Summarizer produces an abstractive summary of text.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize returns a summary of text in the provider's own words.
	// Returns an error if the provider call fails.
	Summarize(ctx context.Context, text string) (string, error)
}

// QuestionWriter writes a study question answerable by a single sentence.
// Implementations must be thread-safe for concurrent use.
type QuestionWriter interface {
	// WriteQuestion returns one question whose answer is the given sentence.
	WriteQuestion(ctx context.Context, sentence string) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Recognizer finds words in an image and reports where they are.
// Implementations must be thread-safe for concurrent use.
type Recognizer interface {
	// Recognize returns the words found in img in reading order.
	// Word rectangles are in img's own pixel coordinates.
	// Returns an empty slice if no text is found.
	Recognize(ctx context.Context, img image.Image) ([]RecognizedWord, error)
}

// Transcriber turns speech into text.
// Implementations must be thread-safe for concurrent use.
type Transcriber interface {
	// Transcribe returns the transcript of a mono 16-bit PCM clip.
	Transcribe(ctx context.Context, clip AudioClip) (string, error)
}

// AIProvider aggregates inference capabilities for convenient initialization
// and lifecycle management. One provider is constructed at process start and
// handed to every stage that needs it.
type AIProvider interface {
	// Summarizer returns the summarization service.
	Summarizer() Summarizer

	// QuestionWriter returns the question generation service.
	QuestionWriter() QuestionWriter

	// Embedder returns the text embedding service used to rank keyphrases.
	Embedder() Embedder

	// Recognizer returns the OCR service.
	Recognizer() Recognizer

	// Transcriber returns the speech recognition service.
	Transcriber() Transcriber

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
