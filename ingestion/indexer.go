package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/parse"
	"github.com/poiesic/docquery/storage"
)

// Parser turns raw document bytes into a normalized parsed document.
// parse.Client satisfies this interface.
type Parser interface {
	ParsePDF(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error)
	ParseXLSX(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error)
}

// Indexer runs the full ingestion path for one document: fetch the source
// bytes, parse, persist the parsed form, chunk, embed, and write the
// embedding records. Parsing and embedding degrade rather than fail, so an
// indexed document always ends up with records, possibly placeholder ones.
type Indexer struct {
	objects  storage.ObjectStore
	vectors  *storage.VectorStore
	parser   Parser
	chunker  *Chunker
	embedder *BatchEmbedder
	logger   *slog.Logger
}

// IndexResult reports what an indexing run produced.
type IndexResult struct {
	OwnerID    string       `json:"ownerId"`
	DocumentID string       `json:"documentId"`
	DocType    core.DocType `json:"docType"`
	ChunkCount int          `json:"chunkCount"`
	Location   string       `json:"location"`
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithIndexerLogger sets a custom logger.
func WithIndexerLogger(logger *slog.Logger) IndexerOption {
	return func(ix *Indexer) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// WithChunker replaces the default chunker.
func WithChunker(chunker *Chunker) IndexerOption {
	return func(ix *Indexer) {
		if chunker != nil {
			ix.chunker = chunker
		}
	}
}

// WithBatchEmbedder replaces the default batch embedder.
func WithBatchEmbedder(embedder *BatchEmbedder) IndexerOption {
	return func(ix *Indexer) {
		if embedder != nil {
			ix.embedder = embedder
		}
	}
}

// NewIndexer creates an Indexer. The embedder may be nil, which indexes
// every document with placeholder vectors.
func NewIndexer(objects storage.ObjectStore, vectors *storage.VectorStore, parser Parser, embedder ai.Embedder, opts ...IndexerOption) (*Indexer, error) {
	if objects == nil {
		return nil, ErrObjectStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if parser == nil {
		return nil, ErrParserRequired
	}

	logger := slog.Default()
	ix := &Indexer{
		objects:  objects,
		vectors:  vectors,
		parser:   parser,
		chunker:  NewChunker(WithChunkerLogger(logger)),
		embedder: NewBatchEmbedder(embedder, WithBatchEmbedderLogger(logger)),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// sourceExtensions maps recognized source file extensions to document types,
// in probe order.
var sourceExtensions = []struct {
	ext     string
	docType core.DocType
}{
	{".pdf", core.DocTypePDF},
	{".xlsx", core.DocTypeXLSX},
}

// sourceKey returns the object key where a document's source bytes live.
func sourceKey(ownerID, documentID, ext string) string {
	return path.Join(ownerID, documentID+ext)
}

// IndexDocument locates the source object for a document by probing known
// extensions, then indexes it. Returns ErrDocumentNotFound when no source
// object exists under any recognized extension.
func (ix *Indexer) IndexDocument(ctx context.Context, ownerID, documentID string) (*IndexResult, error) {
	for _, candidate := range sourceExtensions {
		key := sourceKey(ownerID, documentID, candidate.ext)
		ok, err := ix.objects.Exists(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		data, err := ix.objects.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return ix.IndexBytes(ctx, ownerID, documentID, documentID+candidate.ext, data)
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, ownerID, documentID)
}

// IndexBytes indexes a document from raw bytes, inferring the document type
// from the filename extension.
func (ix *Indexer) IndexBytes(ctx context.Context, ownerID, documentID, filename string, data []byte) (*IndexResult, error) {
	var (
		doc *core.ParsedDocument
		err error
	)

	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		doc, err = ix.parser.ParsePDF(ctx, data, filename)
	case ".xlsx":
		doc, err = ix.parser.ParseXLSX(ctx, data, filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocType, filename)
	}

	if err != nil {
		if !errors.Is(err, parse.ErrUnavailable) || doc == nil {
			return nil, err
		}
		// The parser degraded to a stub document; index it so the task
		// pipeline stays functional end to end.
		ix.logger.Warn("parser unavailable, indexing stub document",
			"owner", ownerID,
			"document", documentID,
			"error", err)
	}

	if perr := ix.persistParsed(ctx, ownerID, documentID, doc); perr != nil {
		return nil, perr
	}

	chunks := ix.chunker.Chunk(doc)
	valid := chunks[:0]
	for i := range chunks {
		if verr := core.ValidateChunk(&chunks[i]); verr != nil {
			ix.logger.Warn("dropping invalid chunk",
				"document", documentID,
				"error", verr)
			continue
		}
		valid = append(valid, chunks[i])
	}
	chunks = valid

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	embeddings := ix.embedder.Embed(ctx, texts)

	records := make([]core.EmbeddingRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = core.EmbeddingRecord{
			Id:         core.IDFromContent(chunk.Text),
			DocumentID: documentID,
			OwnerID:    ownerID,
			Text:       chunk.Text,
			Metadata:   chunk.Metadata,
			Embedding:  embeddings[i],
		}
	}

	location, err := ix.vectors.WriteRecords(ctx, ownerID, documentID, records)
	if err != nil {
		return nil, err
	}

	ix.logger.Info("indexed document",
		"owner", ownerID,
		"document", documentID,
		"docType", doc.DocType,
		"chunks", len(records),
		"location", location)

	return &IndexResult{
		OwnerID:    ownerID,
		DocumentID: documentID,
		DocType:    doc.DocType,
		ChunkCount: len(records),
		Location:   location,
	}, nil
}

// persistParsed stores the normalized parsed document alongside the
// embeddings so later reprocessing can skip the parsing service.
func (ix *Indexer) persistParsed(ctx context.Context, ownerID, documentID string, doc *core.ParsedDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding parsed document: %w", err)
	}
	return ix.objects.Put(ctx, storage.ParsedKey(ownerID, documentID), payload)
}
