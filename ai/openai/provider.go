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


package openai

import (
	"log/slog"

	"github.com/poiesic/docquery/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages embedder, responder, and agent instances. Accessors return nil
// for services whose backend host is not configured; consumers degrade
// deterministically in that case.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	responder *Responder
	agent     *Agent
	logger    *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		config: config,
		logger: slog.Default().With("component", "openai-provider"),
	}

	if config.EmbeddingHost != "" {
		embedder, err := newEmbedder(config)
		if err != nil {
			return nil, err
		}
		p.embedder = embedder
	}

	if config.ChatHost != "" {
		responder, err := newResponder(config)
		if err != nil {
			return nil, err
		}
		agent, err := newAgent(config)
		if err != nil {
			return nil, err
		}
		p.responder = responder
		p.agent = agent
	}

	return p, nil
}

// Embedder returns the text embedding service, or nil when unconfigured.
func (p *Provider) Embedder() ai.Embedder {
	if p.embedder == nil {
		return nil
	}
	return p.embedder
}

// Responder returns the grounded-answer service, or nil when unconfigured.
func (p *Provider) Responder() ai.Responder {
	if p.responder == nil {
		return nil
	}
	return p.responder
}

// Agent returns the conversational agent service, or nil when unconfigured.
func (p *Provider) Agent() ai.Agent {
	if p.agent == nil {
		return nil
	}
	return p.agent
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
