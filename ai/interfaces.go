package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
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

// Responder produces grounded answers from a system instruction and user content.
// Implementations must be thread-safe for concurrent use.
type Responder interface {
	// Converse sends a system instruction and user content to a generative
	// model and returns the response text.
	Converse(ctx context.Context, system, content string) (string, error)
}

// Agent is a managed conversational endpoint with server-side session state.
// Invoke may return partial output together with a non-nil error when the
// upstream fails mid-stream; callers decide whether the partial text is usable.
type Agent interface {
	Invoke(ctx context.Context, sessionID, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, Responder, and Agent instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service, or nil when no embedding
	// backend is configured. Callers must handle the nil case by degrading
	// deterministically rather than failing.
	Embedder() Embedder

	// Responder returns the grounded-answer service, or nil when no chat
	// backend is configured.
	Responder() Responder

	// Agent returns the conversational agent service, or nil when no chat
	// backend is configured.
	Agent() Agent

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
