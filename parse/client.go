// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/docquery/core"
)

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Client calls the external parsing service that extracts text and tables
// from PDF/XLSX binaries. When the service is unconfigured or fails, Parse
// methods return a deterministic stub document together with ErrUnavailable;
// ingestion continues on the stub instead of aborting.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each parse call. Default is 60s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewClient creates a parsing service client. Empty apiURL or apiKey puts the
// client in stub mode: every parse returns the stub document and ErrNotConfigured.
func NewClient(apiURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default().With("component", "parse-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsePDF extracts text, pages, and tables from PDF bytes.
func (c *Client) ParsePDF(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error) {
	return c.parse(ctx, data, filename, core.DocTypePDF, pdfContentType)
}

// ParseXLSX extracts text and tables from spreadsheet bytes.
func (c *Client) ParseXLSX(ctx context.Context, data []byte, filename string) (*core.ParsedDocument, error) {
	return c.parse(ctx, data, filename, core.DocTypeXLSX, xlsxContentType)
}

func (c *Client) parse(ctx context.Context, data []byte, filename string, docType core.DocType, contentType string) (*core.ParsedDocument, error) {
	if c.apiURL == "" || c.apiKey == "" {
		c.logger.Debug("parse backend not configured, returning stub", "filename", filename)
		return StubDocument(docType, filename), ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(data))
	if err != nil {
		return StubDocument(docType, filename), fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Filename", filename)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("parse request failed, returning stub", "filename", filename, "err", err)
		return StubDocument(docType, filename), fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("parse request rejected, returning stub", "filename", filename, "status", resp.StatusCode)
		return StubDocument(docType, filename), fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return StubDocument(docType, filename), fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var raw rawDocument
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.Warn("unparseable parse response, returning stub", "filename", filename, "err", err)
		return StubDocument(docType, filename), fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return normalize(&raw, docType, filename), nil
}

// StubDocument is the deterministic degradation used when the parsing
// service cannot produce a real parse. Ingestion of a stub still yields
// chunks, embeddings, and a readable (if uninformative) corpus.
func StubDocument(docType core.DocType, filename string) *core.ParsedDocument {
	return &core.ParsedDocument{
		DocType: docType,
		Text:    fmt.Sprintf("Parsed content for %s (stub)", filename),
		Pages: []core.Page{
			{Number: 1, Text: "Example page text (stub)"},
		},
		Meta: map[string]string{"title": filename},
	}
}
