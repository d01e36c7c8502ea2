package search

import "github.com/poiesic/docquery/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during retrieval.
type RetrievalMonitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	AfterCandidateLoad(documentID string, count int)
	TopicBiasApplied(kept int)
	LexicalFallback(kept int)
	Finish(hits []core.RetrievalHit)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                    {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)   {}
func (n *noopMonitor) AfterCandidateLoad(_ string, _ int) {}
func (n *noopMonitor) TopicBiasApplied(_ int)            {}
func (n *noopMonitor) LexicalFallback(_ int)             {}
func (n *noopMonitor) Finish(_ []core.RetrievalHit)      {}
