package gateway

import "strings"

// throttleMarkers are the substrings that identify a rate-limit failure in
// an upstream error, compared case-insensitively.
var throttleMarkers = []string{
	"throttl",
	"rate limit",
	"rate-limit",
	"too many requests",
	"429",
}

// IsThrottling reports whether an error indicates upstream rate limiting.
func IsThrottling(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range throttleMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
