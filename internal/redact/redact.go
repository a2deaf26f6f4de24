// Package redact strips deployment details from error text before it is
// returned to API clients. Goal recompute failures carry a human-readable
// reason, and the wrapped store or exporter error underneath may mention
// file paths, endpoints, or credentials.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	PathPlaceholder       = "[REDACTED_PATH]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	HostPlaceholder       = "[REDACTED_HOST]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	StackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules run in order. URL userinfo goes before hosts so the host of a
// credentialed URL is still redacted afterwards.
var rules = []rule{
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), StackPlaceholder},
	{regexp.MustCompile(`(?i)(\b[a-z][a-z0-9+.-]*://)[^/@\s]+@`), "${1}" + CredentialPlaceholder},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), CredentialPlaceholder},
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret|authorization)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), KeyPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), EmailPlaceholder},
	{regexp.MustCompile(`(?i)\b(?:localhost|[a-z0-9-]+(?:\.[a-z0-9-]+)+):\d{1,5}\b`), HostPlaceholder},
	{regexp.MustCompile(`(?:[A-Za-z]:)?(?:[/\\][\w.-]+){2,}`), PathPlaceholder},
}

// String returns input with every sensitive fragment replaced.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.placeholder)
	}
	return input
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
