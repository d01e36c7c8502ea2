package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/docquery/ai"
)

const (
	// How many texts are sent to the embedder per request.
	embedBatchSize = 16

	// Width of the placeholder vectors used when no embedding is available.
	degradedVectorWidth = 8
)

// BatchEmbedder embeds chunk texts in fixed-size batches and never fails:
// when the embedder is missing or a batch errors, the affected texts get
// zero vectors so indexing proceeds with lexical search still possible.
type BatchEmbedder struct {
	embedder  ai.Embedder
	batchSize int
	logger    *slog.Logger
}

// BatchEmbedderOption configures a BatchEmbedder.
type BatchEmbedderOption func(*BatchEmbedder)

// WithBatchSize sets how many texts are embedded per request.
func WithBatchSize(size int) BatchEmbedderOption {
	return func(b *BatchEmbedder) {
		if size > 0 {
			b.batchSize = size
		}
	}
}

// WithBatchEmbedderLogger sets a custom logger.
func WithBatchEmbedderLogger(logger *slog.Logger) BatchEmbedderOption {
	return func(b *BatchEmbedder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBatchEmbedder creates a BatchEmbedder. A nil embedder is legal and
// puts the embedder in degraded mode from the start.
func NewBatchEmbedder(embedder ai.Embedder, opts ...BatchEmbedderOption) *BatchEmbedder {
	b := &BatchEmbedder{
		embedder:  embedder,
		batchSize: embedBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Embed returns exactly one vector per input text, in input order. A batch
// that fails to embed yields zero vectors for its texts only; later batches
// still reach the embedder. Substituted zero vectors take the width of the
// model's vectors so one run never mixes widths; width 8 is used only when
// no batch succeeded at all.
func (b *BatchEmbedder) Embed(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))

	if b.embedder == nil {
		b.logger.Warn("no embedder configured, writing zero vectors", "texts", len(texts))
		for i := range vectors {
			vectors[i] = make([]float32, degradedVectorWidth)
		}
		return vectors
	}

	width := 0
	for start := 0; start < len(texts); start += b.batchSize {
		end := min(start+b.batchSize, len(texts))
		batch := texts[start:end]

		embedded, err := b.embedder.EmbedTexts(ctx, batch)
		if err != nil {
			b.logger.Warn("embedding batch failed, writing zero vectors",
				"batch_start", start,
				"batch_size", len(batch),
				"error", err)
			embedded = nil
		}

		// Force a 1:1 correspondence with the batch regardless of what
		// the model returned; slots left nil are filled below.
		for i := range batch {
			if i < len(embedded) && len(embedded[i]) > 0 {
				vectors[start+i] = embedded[i]
				if width == 0 {
					width = len(embedded[i])
				}
			}
		}
	}

	if width == 0 {
		width = degradedVectorWidth
	}
	for i := range vectors {
		if vectors[i] == nil {
			vectors[i] = make([]float32, width)
		}
	}

	return vectors
}
