// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.TextGenerator
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// the remote services and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, &ai.RemoteError{Op: "embeddings", Status: 503, Message: "down"}
//	}
//
//	generator := mock.NewMockGenerator(`{"prioritizedIds":["2","1"]}`)
//	count := generator.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic non-zero vectors based on text hash
//   - MockGenerator: Returns its canned Reply
//   - MockProvider: Aggregates mock embedder and generator
package mock
