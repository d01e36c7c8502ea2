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


// Package ai provides abstractions for AI services used in docquery.
//
// This package defines interfaces for AI operations including text embeddings,
// grounded answer generation, and conversational agent invocation. It follows
// the dependency inversion principle, allowing the core domain and business
// logic to depend on abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Responder: Produces grounded answers from instruction plus content
//   - Agent: Invokes a managed conversational endpoint, possibly streaming
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Degradation Contract
//
// A provider with no configured backend returns nil from the corresponding
// accessor. Consumers are required to degrade deterministically: the
// ingestion pipeline substitutes fixed-width zero vectors, and the answer
// composer falls back to returning retrieved previews. Nothing in the
// pipeline may fail solely because an AI backend is absent.
//
// # Usage Example
//
//	// Production usage with OpenAI-compatible provider
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, []string{"Hello world"})
//
//	// Testing usage with mocks
//	mockProvider := mock.NewMockProvider()
//	text, err := mockProvider.Responder().Converse(ctx, "system", "content")
package ai
