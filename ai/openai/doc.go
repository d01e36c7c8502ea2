// Package openai implements the ai service interfaces against
// OpenAI-compatible HTTP APIs (OpenAI, Ollama, LocalAI, vLLM, etc).
//
// All clients are built on langchaingo with a bounded per-request timeout.
// Construction fails fast on invalid configuration; at runtime, errors are
// returned to callers who apply the retry or degradation policy appropriate
// to their pipeline stage.
package openai
