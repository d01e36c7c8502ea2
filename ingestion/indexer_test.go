package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/docquery/ai/mock"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/parse"
	"github.com/poiesic/docquery/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memObjectStore is a map-backed ObjectStore for testing.
type memObjectStore struct {
	objects map[string][]byte
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: make(map[string][]byte)}
}

func (s *memObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (s *memObjectStore) Put(ctx context.Context, key string, data []byte) error {
	s.objects[key] = data
	return nil
}

func (s *memObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

// mockParser is a function-field test double for Parser.
type mockParser struct {
	ParsePDFFunc  func(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error)
	ParseXLSXFunc func(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error)
}

func (m *mockParser) ParsePDF(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error) {
	if m.ParsePDFFunc != nil {
		return m.ParsePDFFunc(ctx, data, filename)
	}
	return &core.ParsedDocument{
		DocType: core.DocTypePDF,
		Text:    "parsed pdf text",
		Pages:   []core.Page{{Number: 1, Text: "parsed pdf text"}},
		Meta:    map[string]string{"title": filename},
	}, nil
}

func (m *mockParser) ParseXLSX(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error) {
	if m.ParseXLSXFunc != nil {
		return m.ParseXLSXFunc(ctx, data, filename)
	}
	return &core.ParsedDocument{
		DocType: core.DocTypeXLSX,
		Tables: []core.Table{{
			Name: "Sheet1",
			Kind: core.TableKindRows,
			Rows: [][]string{{"Topic", "Answer"}, {"question", "answer"}},
		}},
		Meta: map[string]string{"title": filename},
	}, nil
}

func newTestIndexer(t *testing.T, objects storage.ObjectStore, parser Parser) (*Indexer, *storage.VectorStore) {
	t.Helper()
	vectors := storage.NewVectorStore(objects)
	indexer, err := NewIndexer(objects, vectors, parser, mock.NewMockEmbedder())
	require.NoError(t, err)
	return indexer, vectors
}

func TestNewIndexer_RequiredDependencies(t *testing.T) {
	objects := newMemObjectStore()
	vectors := storage.NewVectorStore(objects)

	_, err := NewIndexer(nil, vectors, &mockParser{}, nil)
	assert.ErrorIs(t, err, ErrObjectStoreRequired)

	_, err = NewIndexer(objects, nil, &mockParser{}, nil)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)

	_, err = NewIndexer(objects, vectors, nil, nil)
	assert.ErrorIs(t, err, ErrParserRequired)
}

func TestIndexer_IndexDocument_PDF(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjectStore()
	require.NoError(t, objects.Put(ctx, "owner-1/doc-1.pdf", []byte("%PDF-")))

	indexer, vectors := newTestIndexer(t, objects, &mockParser{})

	result, err := indexer.IndexDocument(ctx, "owner-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, core.DocTypePDF, result.DocType)
	assert.Equal(t, 1, result.ChunkCount)
	assert.Equal(t, "embeddings/owner-1/doc-1.jsonl", result.Location)

	records, err := vectors.ReadRecords(ctx, "owner-1", "doc-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "parsed pdf text", records[0].Text)
	assert.Equal(t, core.IDFromContent("parsed pdf text"), records[0].Id)
	assert.Equal(t, "doc-1", records[0].DocumentID)
	assert.Equal(t, "owner-1", records[0].OwnerID)
	assert.NotEmpty(t, records[0].Embedding)
}

func TestIndexer_IndexDocument_ProbesExtensions(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjectStore()
	require.NoError(t, objects.Put(ctx, "owner-1/sheet-1.xlsx", []byte("PK")))

	indexer, _ := newTestIndexer(t, objects, &mockParser{})

	result, err := indexer.IndexDocument(ctx, "owner-1", "sheet-1")
	require.NoError(t, err)
	assert.Equal(t, core.DocTypeXLSX, result.DocType)
	assert.Equal(t, 1, result.ChunkCount)
}

func TestIndexer_IndexDocument_Missing(t *testing.T) {
	indexer, _ := newTestIndexer(t, newMemObjectStore(), &mockParser{})

	_, err := indexer.IndexDocument(context.Background(), "owner-1", "absent")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestIndexer_PersistsParsedDocument(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjectStore()
	require.NoError(t, objects.Put(ctx, "owner-1/doc-1.pdf", []byte("%PDF-")))

	indexer, _ := newTestIndexer(t, objects, &mockParser{})
	_, err := indexer.IndexDocument(ctx, "owner-1", "doc-1")
	require.NoError(t, err)

	payload, err := objects.Get(ctx, "parsed/owner-1/doc-1.json")
	require.NoError(t, err)

	var doc core.ParsedDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Equal(t, core.DocTypePDF, doc.DocType)
	assert.Equal(t, "parsed pdf text", doc.Text)
}

func TestIndexer_StubDocumentStillIndexed(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjectStore()
	require.NoError(t, objects.Put(ctx, "owner-1/doc-1.pdf", []byte("%PDF-")))

	parser := &mockParser{
		ParsePDFFunc: func(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error) {
			return parse.StubDocument(core.DocTypePDF, filename),
				fmt.Errorf("%w: connection refused", parse.ErrUnavailable)
		},
	}
	indexer, vectors := newTestIndexer(t, objects, parser)

	result, err := indexer.IndexDocument(ctx, "owner-1", "doc-1")
	require.NoError(t, err)
	assert.Greater(t, result.ChunkCount, 0)

	records, err := vectors.ReadRecords(ctx, "owner-1", "doc-1")
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Contains(t, records[0].Text, "(stub)")
}

func TestIndexer_NonDegradedParseErrorFails(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjectStore()
	require.NoError(t, objects.Put(ctx, "owner-1/doc-1.pdf", []byte("%PDF-")))

	parseErr := errors.New("context canceled")
	parser := &mockParser{
		ParsePDFFunc: func(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error) {
			return nil, parseErr
		},
	}
	indexer, _ := newTestIndexer(t, objects, parser)

	_, err := indexer.IndexDocument(ctx, "owner-1", "doc-1")
	assert.ErrorIs(t, err, parseErr)
}

func TestIndexer_IndexBytes_UnsupportedExtension(t *testing.T) {
	indexer, _ := newTestIndexer(t, newMemObjectStore(), &mockParser{})

	_, err := indexer.IndexBytes(context.Background(), "owner-1", "doc-1", "doc-1.docx", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedDocType)
}

func TestIndexer_NilEmbedderWritesZeroVectors(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjectStore()
	require.NoError(t, objects.Put(ctx, "owner-1/doc-1.pdf", []byte("%PDF-")))

	vectors := storage.NewVectorStore(objects)
	indexer, err := NewIndexer(objects, vectors, &mockParser{}, nil)
	require.NoError(t, err)

	_, err = indexer.IndexDocument(ctx, "owner-1", "doc-1")
	require.NoError(t, err)

	records, err := vectors.ReadRecords(ctx, "owner-1", "doc-1")
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, make([]float32, 8), records[0].Embedding)
}
