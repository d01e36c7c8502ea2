// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Responder,
// ai.Agent, and ai.AIProvider for use in unit tests. The mocks allow tests to
// run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vectors, err := mockProvider.Embedder().EmbedTexts(ctx, []string{"test"})
//
//	// Custom behavior injection
//	mockAgent := mock.NewMockAgent()
//	mockAgent.InvokeFunc = func(ctx context.Context, sessionID, prompt string) (string, error) {
//	    return "", errors.New("ThrottlingException")
//	}
//
//	// Check call counts
//	count := mockAgent.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic width-8 vectors based on text hash
//   - MockResponder / MockAgent: Echo the input back
//   - MockProvider: Aggregates the three mocks
package mock
