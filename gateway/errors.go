package gateway

import "errors"

var (
	// ErrAgentRequired is returned when a chat agent is not provided.
	ErrAgentRequired = errors.New("chat agent required")

	// ErrThrottled is returned when every attempt was rejected by upstream
	// rate limiting.
	ErrThrottled = errors.New("upstream rate limit exhausted retry budget")
)
