package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
)

const (
	// Maximum characters of retrieved content handed to the model.
	defaultPreviewChars = 2000

	hitSeparator = "\n\n---\n\n"
)

const groundingInstruction = `You are a document analysis assistant. Answer the question using only the provided document content. If the content does not contain the answer, say so plainly. Keep the answer concise and cite the relevant passages.`

// Source identifies where an answer's supporting text came from.
type Source struct {
	DocumentID string `json:"documentId"`
	Page       int    `json:"page,omitempty"`
	Sheet      string `json:"sheet,omitempty"`
	Row        int    `json:"row,omitempty"`
}

// Answer is a composed response with its supporting sources.
type Answer struct {
	Text    string   `json:"text"`
	Report  string   `json:"reportMarkdown"`
	Sources []Source `json:"sources"`
}

// Composer turns retrieval hits into a grounded answer. The generative
// call is best effort: when the responder is missing or errors, the
// composer falls back to returning the retrieved content itself, so a
// task never fails at the composition step.
type Composer struct {
	responder    ai.Responder
	previewChars int
	logger       *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithPreviewChars caps how much retrieved content reaches the model.
func WithPreviewChars(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.previewChars = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewComposer creates a Composer. A nil responder is legal and puts the
// composer in fallback mode from the start.
func NewComposer(responder ai.Responder, opts ...Option) *Composer {
	c := &Composer{
		responder:    responder,
		previewChars: defaultPreviewChars,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds an answer to the prompt from the retrieved hits. docIDs
// names the documents that were searched so the no-content message can
// reference them. Never returns an empty answer.
func (c *Composer) Compose(ctx context.Context, prompt string, hits []core.RetrievalHit, docIDs []string) *Answer {
	preview := c.preview(hits)
	sources := collectSources(hits)

	if preview == "" {
		text := fmt.Sprintf(
			"No indexed content was found for the requested documents (%s). They may not have been indexed yet.",
			strings.Join(docIDs, ", "))
		return &Answer{
			Text:   text,
			Report: renderReport(text, nil),
		}
	}

	text, ok := c.generate(ctx, prompt, preview)
	if !ok {
		text = fmt.Sprintf("Question: %s\n\nRelevant document content:\n\n%s", prompt, preview)
	}

	return &Answer{
		Text:    text,
		Report:  renderReport(text, sources),
		Sources: sources,
	}
}

// generate asks the model for a grounded answer. Returns false when no
// usable answer came back and the caller should fall back to the preview.
func (c *Composer) generate(ctx context.Context, prompt, preview string) (string, bool) {
	if c.responder == nil {
		c.logger.Warn("no responder configured, returning retrieved content")
		return "", false
	}

	content := fmt.Sprintf("Question: %s\n\nDocument content:\n\n%s", prompt, preview)
	text, err := c.responder.Converse(ctx, groundingInstruction, content)
	if err != nil {
		c.logger.Warn("generative call failed, returning retrieved content", "error", err)
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// preview joins hit texts, truncated to the configured length.
func (c *Composer) preview(hits []core.RetrievalHit) string {
	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		if strings.TrimSpace(hit.Text) == "" {
			continue
		}
		texts = append(texts, hit.Text)
	}

	joined := strings.Join(texts, hitSeparator)
	runes := []rune(joined)
	if len(runes) > c.previewChars {
		joined = string(runes[:c.previewChars])
	}
	return joined
}

// collectSources derives deduplicated citations from the hits, preserving
// hit order.
func collectSources(hits []core.RetrievalHit) []Source {
	seen := make(map[Source]bool, len(hits))
	var sources []Source
	for _, hit := range hits {
		source := Source{
			DocumentID: hit.DocumentID,
			Page:       hit.Metadata.Page,
			Sheet:      hit.Metadata.Sheet,
			Row:        hit.Metadata.Row,
		}
		if seen[source] {
			continue
		}
		seen[source] = true
		sources = append(sources, source)
	}
	return sources
}

// renderReport formats the answer and its sources as markdown.
func renderReport(text string, sources []Source) string {
	var sb strings.Builder
	sb.WriteString("## Answer\n\n")
	sb.WriteString(text)

	if len(sources) > 0 {
		sb.WriteString("\n\n## Sources\n")
		for _, source := range sources {
			sb.WriteString("\n- ")
			sb.WriteString(source.String())
		}
	}
	return sb.String()
}

// String renders a source citation like "doc-1 (page 3)" or
// "faq (sheet Questions, row 2)".
func (s Source) String() string {
	switch {
	case s.Sheet != "" && s.Row > 0:
		return fmt.Sprintf("%s (sheet %s, row %d)", s.DocumentID, s.Sheet, s.Row)
	case s.Sheet != "":
		return fmt.Sprintf("%s (sheet %s)", s.DocumentID, s.Sheet)
	case s.Page > 0:
		return fmt.Sprintf("%s (page %d)", s.DocumentID, s.Page)
	default:
		return s.DocumentID
	}
}
