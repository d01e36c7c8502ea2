package ingestion

import (
	"strings"
	"testing"

	"github.com/poiesic/docquery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_PDFShortPages(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypePDF,
		Pages: []core.Page{
			{Number: 1, Text: "First page text."},
			{Number: 2, Text: "Second page text."},
			{Number: 3, Text: "   "},
		},
		Meta: map[string]string{"title": "report.pdf"},
	}

	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 2)

	assert.Equal(t, "First page text.", chunks[0].Text)
	assert.Equal(t, 1, chunks[0].Metadata.Page)
	assert.Equal(t, core.DocTypePDF, chunks[0].Metadata.DocType)
	assert.Equal(t, "report.pdf", chunks[0].Metadata.Title)

	assert.Equal(t, 2, chunks[1].Metadata.Page)
}

func TestChunker_PDFLongPageWindows(t *testing.T) {
	chunker := NewChunker()
	longText := strings.Repeat("a", 10000)
	doc := &core.ParsedDocument{
		DocType: core.DocTypePDF,
		Pages:   []core.Page{{Number: 1, Text: longText}},
	}

	chunks := chunker.Chunk(doc)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), pdfWindowChars, "chunk %d", i)
		assert.Equal(t, 1, chunk.Metadata.Page, "chunk %d", i)
	}

	// Windows overlap, so total characters exceed the source length.
	total := 0
	for _, chunk := range chunks {
		total += len(chunk.Text)
	}
	assert.Greater(t, total, len(longText))
}

func TestChunker_PDFWholeTextFallback(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypePDF,
		Text:    "Document with no page breakdown.",
	}

	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Document with no page breakdown.", chunks[0].Text)
	assert.Zero(t, chunks[0].Metadata.Page)
}

func TestChunker_XLSXRows(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypeXLSX,
		Tables: []core.Table{{
			Name: "FAQ",
			Kind: core.TableKindRows,
			Rows: [][]string{
				{"Topic", "Answer"},
				{"How many years of experience are required?", "Five years minimum."},
				{"What skills matter most?", "Communication and Go."},
			},
		}},
		Meta: map[string]string{"title": "faq.xlsx"},
	}

	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 2)

	first := chunks[0]
	assert.Equal(t, "Topic: How many years of experience are required?; Answer: Five years minimum.", first.Text)
	assert.Equal(t, "FAQ", first.Metadata.Sheet)
	assert.Equal(t, 2, first.Metadata.Row)
	assert.Equal(t, "How many years of experience are required?", first.Metadata.Columns["Topic"])
	assert.Equal(t, "Five years minimum.", first.Metadata.Columns["Answer"])

	assert.Equal(t, 3, chunks[1].Metadata.Row)
}

func TestChunker_XLSXNumericHeader(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypeXLSX,
		Tables: []core.Table{{
			Name: "growth",
			Kind: core.TableKindRows,
			Rows: [][]string{
				{"2024", "Revenue"},
				{"West", "100"},
				{"East", "200"},
			},
		}},
	}

	// The first row with any non-empty cell is the header, numeric or not.
	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 2)
	assert.Equal(t, "2024: West; Revenue: 100", chunks[0].Text)
	assert.Equal(t, 2, chunks[0].Metadata.Row)
	assert.Equal(t, "2024: East; Revenue: 200", chunks[1].Text)
	assert.Equal(t, 3, chunks[1].Metadata.Row)
}

func TestChunker_XLSXNoHeader(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypeXLSX,
		Tables: []core.Table{{
			Name: "blanks",
			Kind: core.TableKindRows,
			Rows: [][]string{
				{"", ""},
				{"", ""},
				{"", ""},
				{"3", "4"},
			},
		}},
	}

	// No row in the scan window has a non-empty cell, so every row is data
	// under synthesized column names.
	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "col1: 3; col2: 4", chunks[0].Text)
	assert.Equal(t, 4, chunks[0].Metadata.Row)
}

func TestChunker_XLSXSynthesizedHeaderNames(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypeXLSX,
		Tables: []core.Table{{
			Name: "partial",
			Kind: core.TableKindRows,
			Rows: [][]string{
				{"Name", ""},
				{"Ada", "Engineer"},
			},
		}},
	}

	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Name: Ada; col2: Engineer", chunks[0].Text)
}

func TestChunker_XLSXSkipsEmptyCells(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypeXLSX,
		Tables: []core.Table{{
			Name: "sparse",
			Kind: core.TableKindRows,
			Rows: [][]string{
				{"A", "B", "C"},
				{"x", "", "z"},
				{"", "", ""},
			},
		}},
	}

	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A: x; C: z", chunks[0].Text)
	assert.NotContains(t, chunks[0].Metadata.Columns, "B")
}

func TestChunker_XLSXCSVTable(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypeXLSX,
		Tables: []core.Table{{
			Name: "export",
			Kind: core.TableKindCSV,
			CSV:  "Region,Total\nWest,100\nEast,200",
		}},
	}

	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Region: West; Total: 100", chunks[0].Text)
	assert.Equal(t, "Region: East; Total: 200", chunks[1].Text)
}

func TestChunker_XLSXTextTable(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypeXLSX,
		Tables: []core.Table{{
			Name: "notes",
			Kind: core.TableKindText,
			Text: "free-form sheet dump",
		}},
	}

	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "free-form sheet dump", chunks[0].Text)
	assert.Equal(t, "notes", chunks[0].Metadata.Sheet)
	assert.Zero(t, chunks[0].Metadata.Row)
}

func TestChunker_XLSXNestedPageTables(t *testing.T) {
	chunker := NewChunker()
	doc := &core.ParsedDocument{
		DocType: core.DocTypeXLSX,
		Pages: []core.Page{{
			Number: 1,
			Tables: []core.Table{{
				Name: "inner",
				Kind: core.TableKindRows,
				Rows: [][]string{{"K", "V"}, {"a", "b"}},
			}},
		}},
	}

	chunks := chunker.Chunk(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "K: a; V: b", chunks[0].Text)
	assert.Equal(t, "inner", chunks[0].Metadata.Sheet)
}

func TestWindowText(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, windowText("   ", 100, 10))
	})

	t.Run("fits in one window", func(t *testing.T) {
		windows := windowText("short", 100, 10)
		require.Len(t, windows, 1)
		assert.Equal(t, "short", windows[0])
	})

	t.Run("overlapping windows", func(t *testing.T) {
		text := strings.Repeat("x", 250)
		windows := windowText(text, 100, 20)
		require.Len(t, windows, 3)
		assert.Len(t, windows[0], 100)
		assert.Len(t, windows[1], 100)
		// Final window covers the tail: 250 - 2*80 = 90 characters.
		assert.Len(t, windows[2], 90)
	})
}
