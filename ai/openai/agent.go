package openai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poiesic/docquery/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const agentInstruction = "You are a document analysis assistant. " +
	"Answer questions grounded in the documents the user has uploaded. " +
	"If you do not know, say so rather than speculating."

// Agent implements ai.Agent using OpenAI-compatible streaming chat APIs.
//
// The upstream completion is streamed chunk by chunk; if the stream fails
// after partial output has been produced, Invoke returns the partial text
// together with the error so the caller can decide whether to keep it.
// Session continuity is delegated to the upstream service; the session id
// is carried for correlation only.
type Agent struct {
	client llms.Model
	logger *slog.Logger
}

// newAgent is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAgent(config *ai.Config) (*Agent, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
		openai.WithHTTPClient(&http.Client{Timeout: config.RequestTimeout}),
	)
	if err != nil {
		return nil, err
	}

	return &Agent{
		client: client,
		logger: slog.Default().With("component", "openai-agent"),
	}, nil
}

// NewAgent creates a new conversational agent using the provided configuration.
//
// Returns ai.Agent interface to enforce abstraction.
func NewAgent(config *ai.Config) (ai.Agent, error) {
	return newAgent(config)
}

// Invoke sends the prompt to the agent and collects the streamed completion.
func (a *Agent) Invoke(ctx context.Context, sessionID, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(agentInstruction),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	var collected strings.Builder
	_, err := a.client.GenerateContent(ctx, messages,
		llms.WithTemperature(0.2),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			collected.Write(chunk)
			return nil
		}),
	)
	if err != nil {
		// Partial output may already be collected; surface both.
		a.logger.Error("agent invocation failed", "session", sessionID, "collected", collected.Len(), "err", err)
		return collected.String(), err
	}

	return collected.String(), nil
}
