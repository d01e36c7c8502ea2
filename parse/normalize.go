package parse

import (
	"fmt"
	"strings"

	"github.com/poiesic/docquery/core"
)

// Wire types for the parsing service response. Upstream parsers disagree on
// field names (page vs pageNumber, name vs sheet) and on table payload shape
// (row arrays, inline CSV, opaque text); everything is reconciled here so the
// rest of the pipeline sees one normalized structure.

type rawDocument struct {
	Text     string            `json:"text"`
	Pages    []rawPage         `json:"pages"`
	Tables   []rawTable        `json:"tables"`
	Metadata map[string]string `json:"metadata"`
}

type rawPage struct {
	PageNumber int        `json:"pageNumber"`
	Page       int        `json:"page"`
	Text       string     `json:"text"`
	Items      []rawTable `json:"items"`
}

type rawTable struct {
	Type  string  `json:"type"`
	Name  string  `json:"name"`
	Sheet string  `json:"sheet"`
	Rows  [][]any `json:"rows"`
	CSV   string  `json:"csv"`
	Value string  `json:"value"`
	Text  string  `json:"text"`
}

func normalize(raw *rawDocument, docType core.DocType, filename string) *core.ParsedDocument {
	doc := &core.ParsedDocument{
		DocType: docType,
		Text:    raw.Text,
		Meta:    raw.Metadata,
	}
	if doc.Meta == nil {
		doc.Meta = map[string]string{"title": filename}
	}

	for i, p := range raw.Pages {
		number := p.PageNumber
		if number == 0 {
			number = p.Page
		}
		if number == 0 {
			number = i + 1
		}
		page := core.Page{Number: number, Text: p.Text}
		for _, item := range p.Items {
			if table, ok := decodeTable(item); ok {
				page.Tables = append(page.Tables, table)
			}
		}
		doc.Pages = append(doc.Pages, page)
	}

	for _, t := range raw.Tables {
		if table, ok := decodeTable(t); ok {
			doc.Tables = append(doc.Tables, table)
		}
	}

	// Fall back to first-page text when the parser left the top level empty.
	if doc.Text == "" && len(doc.Pages) > 0 {
		doc.Text = doc.Pages[0].Text
	}

	return doc
}

// decodeTable resolves a heterogeneous table payload into exactly one tagged
// shape. Precedence: structured rows, then inline CSV, then a text blob.
// Items with none of the three are not tables and are dropped.
func decodeTable(t rawTable) (core.Table, bool) {
	name := t.Name
	if name == "" {
		name = t.Sheet
	}

	if len(t.Rows) > 0 {
		rows := make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = stringifyCell(cell)
			}
			rows[i] = cells
		}
		return core.Table{Name: name, Kind: core.TableKindRows, Rows: rows}, true
	}

	csv := t.CSV
	if csv == "" && looksLikeCSV(t.Value) {
		csv = t.Value
	}
	if csv != "" {
		return core.Table{Name: name, Kind: core.TableKindCSV, CSV: csv}, true
	}

	if t.Text != "" {
		return core.Table{Name: name, Kind: core.TableKindText, Text: t.Text}, true
	}

	return core.Table{}, false
}

// looksLikeCSV reports whether inline item text is plausibly CSV: at least
// one line with a comma on every non-empty line.
func looksLikeCSV(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	lines := strings.Split(s, "\n")
	seen := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.Contains(line, ",") {
			return false
		}
		seen = true
	}
	return seen
}

func stringifyCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; print integers without a decimal point.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
