package ai

import "context"

// Embedder turns text into vectors for semantic similarity scoring.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns a *RemoteError if the remote service fails or returns nothing.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice has one vector per input, in input order, regardless
	// of the order the remote service answered in.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// TextGenerator produces free text from a system instruction and a user prompt.
// Implementations must be thread-safe for concurrent use.
type TextGenerator interface {
	// Generate returns the model's reply. Callers are expected to extract
	// structured content from it with ExtractJSONArray or ExtractJSONObject.
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the text generation service.
	Generator() TextGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
