package parse

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the parsing service could not be reached or
	// returned an unusable response. Callers receive a stub document
	// alongside this error and are expected to continue with it.
	ErrUnavailable = errors.New("parsing service unavailable")

	// ErrNotConfigured indicates no parsing service endpoint is configured.
	// Wraps ErrUnavailable so a single errors.Is check covers both.
	ErrNotConfigured = fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
)
