package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocType identifies the source format of a parsed document.
type DocType string

const (
	// DocTypePDF is a page-oriented PDF document.
	DocTypePDF DocType = "pdf"
	// DocTypeXLSX is a table-oriented spreadsheet.
	DocTypeXLSX DocType = "xlsx"
)

// ChunkMetadata carries citation information for a retrieval unit.
// Page is set for PDF chunks, Sheet/Row/Columns for spreadsheet chunks.
type ChunkMetadata struct {
	DocType DocType           `json:"docType"`
	Title   string            `json:"title,omitempty"`
	Page    int               `json:"page,omitempty"`
	Sheet   string            `json:"sheet,omitempty"`
	Row     int               `json:"row,omitempty"`
	Columns map[string]string `json:"columns,omitempty"`
}

// Chunk is a retrieval-sized slice of a document's extracted text.
// Text is always non-empty after trimming; the chunker guarantees this.
type Chunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// EmbeddingRecord is one persisted chunk with its embedding vector.
// Records are immutable once written; re-indexing a document replaces
// its entire record set.
type EmbeddingRecord struct {
	Id         ID            `json:"id,omitempty"`
	DocumentID string        `json:"documentId"`
	OwnerID    string        `json:"ownerId"`
	Text       string        `json:"text"`
	Metadata   ChunkMetadata `json:"metadata"`
	Embedding  []float32     `json:"embedding"`
}

// RetrievalHit is an ephemeral per-query scoring of a stored record.
type RetrievalHit struct {
	DocumentID string        `json:"documentId"`
	Text       string        `json:"text"`
	Metadata   ChunkMetadata `json:"metadata"`
	Score      float64       `json:"score"`
}

// TaskStatus tracks a task through its lifecycle.
// The only legal transitions are Running -> Completed and Running -> Failed.
type TaskStatus int

const (
	// TaskStatusRunning is the initial status, entered at submission.
	TaskStatusRunning TaskStatus = iota + 1
	// TaskStatusCompleted is terminal; Result and CompletedAt are populated.
	TaskStatusCompleted
	// TaskStatusFailed is terminal; Error is populated.
	TaskStatusFailed
)

// String returns the wire representation of the status.
func (s TaskStatus) String() string {
	switch s {
	case TaskStatusRunning:
		return "RUNNING"
	case TaskStatusCompleted:
		return "COMPLETED"
	case TaskStatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the status admits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Task is one unit of asynchronous question-answering work.
// The orchestrator owns a task for its entire lifetime; no other
// component mutates it.
type Task struct {
	TaskID      string
	Status      TaskStatus
	Prompt      string
	OwnerID     string
	DocIDs      []string
	CreatedAt   time.Time
	Result      string
	Error       string
	CompletedAt time.Time
	SessionID   string
}

// Page is one page of a parsed document.
// Tables holds table-like items found inside the page by the parser;
// the chunker consults them only when a document has no top-level tables.
type Page struct {
	Number int     `json:"pageNumber"`
	Text   string  `json:"text"`
	Tables []Table `json:"tables,omitempty"`
}

// TableKind tags the shape a table payload was decoded into.
// Upstream parsers return heterogeneous table payloads (row arrays,
// inline CSV text, opaque text blobs); the shape is decided once at the
// parse boundary instead of re-sniffed at every chunking call site.
type TableKind int

const (
	// TableKindRows is a structured grid of cell values.
	TableKindRows TableKind = iota + 1
	// TableKindCSV is inline comma-separated text.
	TableKindCSV
	// TableKindText is an opaque text blob with no row structure.
	TableKindText
)

// Table is a parsed table in exactly one decoded shape.
// Only the field matching Kind is populated.
type Table struct {
	Name string
	Kind TableKind
	Rows [][]string
	CSV  string
	Text string
}

// ParsedDocument is the normalized output of the external parsing service.
type ParsedDocument struct {
	DocType DocType           `json:"docType"`
	Text    string            `json:"text"`
	Pages   []Page            `json:"pages"`
	Tables  []Table           `json:"tables"`
	Meta    map[string]string `json:"metadata"`
}

// Title returns the document title from parse metadata, if any.
func (d *ParsedDocument) Title() string {
	if d.Meta == nil {
		return ""
	}
	return d.Meta["title"]
}
