package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// ChatResult is the outcome of a synchronous chat exchange.
type ChatResult struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
}

// Gateway fronts the conversational model with throttle-aware retries.
//
// Rate-limit failures are retried with exponential backoff and jitter up
// to the attempt budget. A throttle detected after the model already
// streamed partial output is treated as success with that partial text;
// re-invoking after partial output risks bursty duplication. Any
// non-throttling failure aborts immediately.
type Gateway struct {
	agent       ai.Agent
	maxAttempts int
	baseDelay   time.Duration
	jitter      func() float64
	sleep       func(context.Context, time.Duration) error
	logger      *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithMaxAttempts sets the total attempt budget.
func WithMaxAttempts(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the first-retry backoff delay.
func WithBaseDelay(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.baseDelay = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGateway creates a Gateway over the given agent.
func NewGateway(agent ai.Agent, opts ...Option) (*Gateway, error) {
	if agent == nil {
		return nil, ErrAgentRequired
	}

	g := &Gateway{
		agent:       agent,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		jitter:      defaultJitter,
		sleep:       sleepContext,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Chat sends a prompt to the model and returns its reply. An empty
// sessionID starts a new session; the minted or provided session id is
// echoed back so the caller can continue the conversation.
func (g *Gateway) Chat(ctx context.Context, prompt, sessionID string) (*ChatResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, core.ErrEmptyPrompt
	}
	if sessionID == "" {
		sessionID = "sess-" + uuid.NewString()
	}

	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		text, err := g.agent.Invoke(ctx, sessionID, prompt)
		if err == nil {
			return &ChatResult{Text: text, SessionID: sessionID}, nil
		}

		if !IsThrottling(err) {
			return nil, err
		}
		lastErr = err

		if strings.TrimSpace(text) != "" {
			g.logger.Warn("throttled mid-stream, returning partial output",
				"session", sessionID,
				"attempt", attempt+1)
			return &ChatResult{Text: text, SessionID: sessionID}, nil
		}

		if attempt == g.maxAttempts-1 {
			break
		}

		delay := backoffDelay(g.baseDelay, attempt, g.jitter())
		g.logger.Info("throttled, backing off",
			"session", sessionID,
			"attempt", attempt+1,
			"delay", delay)
		if err := g.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrThrottled, lastErr)
}
