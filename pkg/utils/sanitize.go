package utils

import (
	"regexp"
	"strings"
)

// sensitivePatterns matches credential material that could leak into logs:
// bearer headers, api_key/token style assignments, and raw sk- keys.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password|auth)\s*[:=]\s*['"]?([a-zA-Z0-9_\-+/=]{8,})['"]?`),
	regexp.MustCompile(`(?i)(bearer\s+)([a-zA-Z0-9_\-+/=]{20,})`),
	regexp.MustCompile(`(?i)(authorization:\s*bearer\s+)([a-zA-Z0-9_\-+/=]{20,})`),
	regexp.MustCompile(`(?i)(sk-[a-zA-Z0-9\-]{20,})`),
}

// SanitizeLog removes credential values from a log message while keeping
// the surrounding key names intact.
func SanitizeLog(message string) string {
	result := message
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			if parts := strings.SplitN(match, ":", 2); len(parts) == 2 {
				return parts[0] + ": ***REDACTED***"
			}
			if strings.Contains(strings.ToLower(match), "sk-") {
				return "sk-***REDACTED***"
			}
			return "***REDACTED***"
		})
	}
	return result
}

// Truncate shortens s to max bytes, appending an ellipsis when cut. Used
// for error bodies and log previews of model output.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
