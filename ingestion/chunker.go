package ingestion

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docquery/core"
)

const (
	// Window size and overlap, in characters, for splitting page text.
	pdfWindowChars   = 4000
	pdfWindowOverlap = 400

	// How many leading rows are examined when looking for a header row.
	headerScanRows = 3
)

// Chunker splits parsed documents into embeddable chunks.
//
// PDFs are split per page with a sliding character window, so a chunk never
// spans a page boundary and page numbers survive into chunk metadata.
// Spreadsheets become one chunk per data row, rendered as "header: value"
// pairs, with the source sheet, row number, and column values preserved.
type Chunker struct {
	logger *slog.Logger
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithChunkerLogger sets a custom logger.
func WithChunkerLogger(logger *slog.Logger) ChunkerOption {
	return func(c *Chunker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChunker creates a Chunker.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits a parsed document into chunks. Empty and whitespace-only
// candidates are dropped, so every returned chunk has non-empty text.
func (c *Chunker) Chunk(doc *core.ParsedDocument) []core.Chunk {
	if doc == nil {
		return nil
	}

	switch doc.DocType {
	case core.DocTypeXLSX:
		return c.chunkTables(doc)
	default:
		return c.chunkText(doc)
	}
}

// chunkText windows page text. When a document has no per-page breakdown
// the top-level text is windowed as a single unit without a page number.
func (c *Chunker) chunkText(doc *core.ParsedDocument) []core.Chunk {
	title := doc.Title()
	var chunks []core.Chunk

	if len(doc.Pages) == 0 {
		for _, text := range windowText(doc.Text, pdfWindowChars, pdfWindowOverlap) {
			chunks = append(chunks, core.Chunk{
				Text: text,
				Metadata: core.ChunkMetadata{
					DocType: doc.DocType,
					Title:   title,
				},
			})
		}
		return chunks
	}

	for _, page := range doc.Pages {
		for _, text := range windowText(page.Text, pdfWindowChars, pdfWindowOverlap) {
			chunks = append(chunks, core.Chunk{
				Text: text,
				Metadata: core.ChunkMetadata{
					DocType: doc.DocType,
					Title:   title,
					Page:    page.Number,
				},
			})
		}
	}
	return chunks
}

// chunkTables emits one chunk per data row across all tables. Documents
// whose parser nested tables under pages instead of the top level are
// handled by falling back to the per-page tables.
func (c *Chunker) chunkTables(doc *core.ParsedDocument) []core.Chunk {
	title := doc.Title()
	tables := doc.Tables
	if len(tables) == 0 {
		for _, page := range doc.Pages {
			tables = append(tables, page.Tables...)
		}
	}

	var chunks []core.Chunk
	for _, table := range tables {
		chunks = append(chunks, c.chunkTable(doc.DocType, title, table)...)
	}
	return chunks
}

func (c *Chunker) chunkTable(docType core.DocType, title string, table core.Table) []core.Chunk {
	rows := table.Rows

	switch table.Kind {
	case core.TableKindCSV:
		parsed, err := parseCSV(table.CSV)
		if err != nil {
			c.logger.Warn("unparseable csv table, indexing as raw text",
				"sheet", table.Name,
				"error", err)
			return textBlobChunk(docType, title, table.Name, table.CSV)
		}
		rows = parsed
	case core.TableKindText:
		return textBlobChunk(docType, title, table.Name, table.Text)
	}

	if len(rows) == 0 {
		return nil
	}

	headers, dataStart := detectHeader(rows)

	var chunks []core.Chunk
	for i := dataStart; i < len(rows); i++ {
		text, columns := renderRow(headers, rows[i])
		if strings.TrimSpace(text) == "" {
			continue
		}
		chunks = append(chunks, core.Chunk{
			Text: text,
			Metadata: core.ChunkMetadata{
				DocType: docType,
				Title:   title,
				Sheet:   table.Name,
				Row:     i + 1,
				Columns: columns,
			},
		})
	}
	return chunks
}

// detectHeader looks for a header row within the first few rows: the first
// row containing any non-empty cell becomes the header. When no row
// qualifies, every row is data and column names are synthesized.
func detectHeader(rows [][]string) (headers []string, dataStart int) {
	limit := min(headerScanRows, len(rows))
	for i := 0; i < limit; i++ {
		if hasNonEmptyCell(rows[i]) {
			width := len(rows[i])
			for _, row := range rows[i+1:] {
				if len(row) > width {
					width = len(row)
				}
			}
			return normalizeHeaders(rows[i], width), i + 1
		}
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return normalizeHeaders(nil, width), 0
}

func hasNonEmptyCell(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// normalizeHeaders pads and fills header names so every column has one,
// using col<N> for missing names.
func normalizeHeaders(header []string, width int) []string {
	headers := make([]string, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("col%d", i+1)
		}
		headers[i] = name
	}
	return headers
}

// renderRow joins a data row into "header: value" pairs separated by "; ".
// Empty cells are omitted from both the text and the columns map.
func renderRow(headers []string, row []string) (string, map[string]string) {
	var parts []string
	columns := make(map[string]string, len(row))
	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		name := fmt.Sprintf("col%d", i+1)
		if i < len(headers) {
			name = headers[i]
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, cell))
		columns[name] = cell
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "; "), columns
}

func textBlobChunk(docType core.DocType, title, sheet, text string) []core.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return []core.Chunk{{
		Text: text,
		Metadata: core.ChunkMetadata{
			DocType: docType,
			Title:   title,
			Sheet:   sheet,
		},
	}}
}

func parseCSV(data string) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// windowText splits text into overlapping windows of at most size characters.
// Consecutive windows share overlap characters so sentences cut at a window
// edge remain findable. Whitespace-only windows are dropped.
func windowText(text string, size, overlap int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	if len(runes) <= size {
		return []string{trimmed}
	}

	step := size - overlap
	if step < 1 {
		step = size
	}

	var windows []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			windows = append(windows, window)
		}
		if end == len(runes) {
			break
		}
	}
	return windows
}
