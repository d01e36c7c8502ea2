package mock

import "context"

// MockResponder is a test double for ai.Responder.
// It allows custom behavior injection via function fields.
type MockResponder struct {
	// ConverseFunc is called by Converse if set.
	// If nil, the default echoes the content back.
	ConverseFunc func(ctx context.Context, system, content string) (string, error)

	callCount int
}

// NewMockResponder creates a mock responder with default echo behavior.
func NewMockResponder() *MockResponder {
	return &MockResponder{}
}

// Converse returns the injected behavior's response, or echoes the content.
func (m *MockResponder) Converse(ctx context.Context, system, content string) (string, error) {
	m.callCount++

	if m.ConverseFunc != nil {
		return m.ConverseFunc(ctx, system, content)
	}

	return "Echo: " + content, nil
}

// CallCount returns the number of times Converse was called.
func (m *MockResponder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockResponder) Reset() {
	m.callCount = 0
	m.ConverseFunc = nil
}

// MockAgent is a test double for ai.Agent.
type MockAgent struct {
	// InvokeFunc is called by Invoke if set.
	// If nil, the default echoes the prompt back.
	InvokeFunc func(ctx context.Context, sessionID, prompt string) (string, error)

	callCount int
}

// NewMockAgent creates a mock agent with default echo behavior.
func NewMockAgent() *MockAgent {
	return &MockAgent{}
}

// Invoke returns the injected behavior's response, or echoes the prompt.
func (m *MockAgent) Invoke(ctx context.Context, sessionID, prompt string) (string, error) {
	m.callCount++

	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, sessionID, prompt)
	}

	return "Echo: " + prompt, nil
}

// CallCount returns the number of times Invoke was called.
func (m *MockAgent) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockAgent) Reset() {
	m.callCount = 0
	m.InvokeFunc = nil
}
