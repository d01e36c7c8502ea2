package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// Config holds the tuning knobs of the retriever. The defaults match the
// corpus this system was tuned on; treat them as configuration rather than
// policy.
type Config struct {
	// TopK is the default number of hits returned when the caller passes
	// a non-positive k.
	TopK int

	// DegenerateThreshold is the best-score cutoff below which cosine
	// ranking is considered uninformative and lexical ranking takes over.
	// Placeholder zero vectors always land here.
	DegenerateThreshold float64

	// TopicColumn is the metadata column name checked by the topic bias,
	// compared case-insensitively.
	TopicColumn string
}

// DefaultConfig returns the default retriever configuration.
func DefaultConfig() Config {
	return Config{
		TopK:                5,
		DegenerateThreshold: 1e-9,
		TopicColumn:         "Topic",
	}
}

// Retriever ranks stored embedding records against a query. Scoring is a
// full scan over the requested documents' records; there is no index
// structure, corpus size bounds the cost.
type Retriever struct {
	vectors  *storage.VectorStore
	embedder ai.Embedder
	config   Config
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConfig replaces the default configuration. Zero-valued fields keep
// their defaults.
func WithConfig(config Config) Option {
	return func(r *Retriever) {
		if config.TopK > 0 {
			r.config.TopK = config.TopK
		}
		if config.DegenerateThreshold > 0 {
			r.config.DegenerateThreshold = config.DegenerateThreshold
		}
		if config.TopicColumn != "" {
			r.config.TopicColumn = config.TopicColumn
		}
	}
}

// NewRetriever creates a Retriever. The embedder may be nil, in which case
// every retrieval returns empty because the query cannot be embedded.
func NewRetriever(vectors *storage.VectorStore, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}

	r := &Retriever{
		vectors:  vectors,
		embedder: embedder,
		config:   DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type candidate struct {
	record core.EmbeddingRecord
	score  float64
}

// RetrieveTopK returns up to k hits for the query across the given
// documents, descending by score. Passing k <= 0 uses the configured
// default. Missing documents are skipped, and a query that cannot be
// embedded yields an empty result rather than an error.
func (r *Retriever) RetrieveTopK(ctx context.Context, query, ownerID string, docIDs []string, k int) ([]core.RetrievalHit, error) {
	return r.RetrieveTopKWithMonitor(ctx, query, ownerID, docIDs, k, nil)
}

// RetrieveTopKWithMonitor is RetrieveTopK with per-stage observation hooks.
func (r *Retriever) RetrieveTopKWithMonitor(ctx context.Context, query, ownerID string, docIDs []string, k int, monitor RetrievalMonitor) ([]core.RetrievalHit, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if k <= 0 {
		k = r.config.TopK
	}

	monitor.Start(query)

	if r.embedder == nil {
		r.logger.Warn("no embedder configured, retrieval returns nothing", "query", query)
		return nil, nil
	}

	queryVector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed, retrieval returns nothing",
			"query", query,
			"error", err)
		return nil, nil
	}
	monitor.AfterQueryEmbedding(queryVector)

	var candidates []candidate
	for _, docID := range docIDs {
		records, err := r.vectors.ReadRecords(ctx, ownerID, docID)
		if err != nil {
			return nil, err
		}
		monitor.AfterCandidateLoad(docID, len(records))
		for _, record := range records {
			candidates = append(candidates, candidate{
				record: record,
				score:  CosineSimilarity(queryVector, record.Embedding),
			})
		}
	}
	if len(candidates) == 0 {
		monitor.Finish(nil)
		return nil, nil
	}

	tokens := QueryTokens(query)

	// Topic bias: prefer records whose topic column mentions a query
	// token, but only when at least one record does.
	if biased := r.topicSubset(candidates, tokens); len(biased) > 0 {
		candidates = biased
		monitor.TopicBiasApplied(len(biased))
	}

	best := 0.0
	for _, c := range candidates {
		if c.score > best {
			best = c.score
		}
	}

	// When the best cosine score carries no signal, rank by lexical
	// overlap instead. An empty lexical result falls through to the
	// uninformative cosine ranking so retrieval still returns something.
	if best <= r.config.DegenerateThreshold {
		var lexical []candidate
		for _, c := range candidates {
			if overlap := LexicalOverlap(c.record.Text, tokens); overlap > 0 {
				lexical = append(lexical, candidate{record: c.record, score: float64(overlap)})
			}
		}
		if len(lexical) > 0 {
			monitor.LexicalFallback(len(lexical))
			candidates = lexical
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	hits := make([]core.RetrievalHit, len(candidates))
	for i, c := range candidates {
		hits[i] = core.RetrievalHit{
			DocumentID: c.record.DocumentID,
			Text:       c.record.Text,
			Metadata:   c.record.Metadata,
			Score:      c.score,
		}
	}
	monitor.Finish(hits)

	return hits, nil
}

// topicSubset returns the candidates whose topic column textually contains
// one of the query tokens.
func (r *Retriever) topicSubset(candidates []candidate, tokens []string) []candidate {
	if len(tokens) == 0 {
		return nil
	}

	var subset []candidate
	for _, c := range candidates {
		for name, value := range c.record.Metadata.Columns {
			if !strings.EqualFold(name, r.config.TopicColumn) {
				continue
			}
			if LexicalOverlap(value, tokens) > 0 {
				subset = append(subset, c)
			}
			break
		}
	}
	return subset
}
