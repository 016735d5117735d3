// Package middleware provides HTTP middleware for the inbound request pipeline.
//
// cmd/server composes the pipeline with Chain in this order:
//
//	Recovery → RequestID → CorrelationID → CORS → OpenTelemetry → Logging → RateLimit → Timeout → Router
//
// Rejections produced here (panics, timeouts, rate limiting) use the same
// JSON error body as the handlers.
package middleware

import "net/http"

// responseWriter records the status code and body size of a response.
// Recovery uses headerWritten to decide whether an error body can still be
// sent; otel and logging report statusCode and written.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code and delegates to the underlying writer.
// Only the first call takes effect; subsequent calls are ignored.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write delegates to the underlying writer, triggering an implicit 200 OK if
// WriteHeader has not been called.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.headerWritten = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap returns the underlying http.ResponseWriter so that
// http.ResponseController and type assertions (http.Flusher, http.Hijacker)
// work through the wrapper.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
