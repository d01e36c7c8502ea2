package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/poiesic/docquery/core"
)

// EmbeddingKey returns the object key holding a document's embedding records.
func EmbeddingKey(ownerID, documentID string) string {
	return path.Join("embeddings", ownerID, documentID+".jsonl")
}

// ParsedKey returns the object key holding a document's parsed form.
func ParsedKey(ownerID, documentID string) string {
	return path.Join("parsed", ownerID, documentID+".json")
}

// VectorStore persists embedding records as JSON Lines, one record per line,
// with one object per (owner, document) pair. Writes replace the whole
// object, so re-indexing a document is idempotent.
type VectorStore struct {
	objects ObjectStore
	logger  *slog.Logger
}

// VectorStoreOption configures a VectorStore.
type VectorStoreOption func(*VectorStore)

// WithVectorStoreLogger sets the logger used for skipped-line reporting.
func WithVectorStoreLogger(logger *slog.Logger) VectorStoreOption {
	return func(s *VectorStore) {
		s.logger = logger
	}
}

// NewVectorStore creates a VectorStore backed by the given object store.
func NewVectorStore(objects ObjectStore, opts ...VectorStoreOption) *VectorStore {
	s := &VectorStore{
		objects: objects,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WriteRecords replaces the document's embedding records and returns the
// object key they were written to.
func (s *VectorStore) WriteRecords(ctx context.Context, ownerID, documentID string, records []core.EmbeddingRecord) (string, error) {
	key := EmbeddingKey(ownerID, documentID)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return "", fmt.Errorf("%w: record %d: %v", ErrSerializationFailed, i, err)
		}
	}

	if err := s.objects.Put(ctx, key, buf.Bytes()); err != nil {
		return "", err
	}
	return key, nil
}

// ReadRecords loads the document's embedding records. A missing object is
// not an error and yields an empty slice. Lines that fail to decode are
// skipped so one corrupt record cannot poison the rest of the document.
func (s *VectorStore) ReadRecords(ctx context.Context, ownerID, documentID string) ([]core.EmbeddingRecord, error) {
	key := EmbeddingKey(ownerID, documentID)

	data, err := s.objects.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var records []core.EmbeddingRecord
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var record core.EmbeddingRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			s.logger.Warn("skipping unreadable embedding record",
				"key", key,
				"line", line,
				"error", err)
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	return records, nil
}
