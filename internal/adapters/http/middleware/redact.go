package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/project-task-api/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders converts request headers into slog attributes sorted by
// header name. Values of headers listed in logging.SensitiveHeaders are
// replaced with "[REDACTED]". Multi-value headers are joined with a comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, key := range keys {
		if logging.SensitiveHeaders[strings.ToLower(key)] {
			attrs = append(attrs, slog.String(key, redacted))
			continue
		}
		attrs = append(attrs, slog.String(key, strings.Join(headers[key], ",")))
	}
	return attrs
}
