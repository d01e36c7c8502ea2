// Package gateway provides the synchronous chat path to the
// conversational model.
//
// The Gateway validates prompts before any upstream call, maintains
// session continuity by minting or echoing session ids, and applies a
// bounded retry policy to rate-limit failures. Throttling after partial
// streamed output is returned as a successful partial answer rather than
// retried.
package gateway
