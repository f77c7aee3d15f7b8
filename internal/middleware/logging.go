package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// maxLoggedBody caps how much of a request body ends up in the log.
const maxLoggedBody = 4096

// RequestLogger logs every request after it completes, including any
// non-empty request body. The body is buffered and handed back to the
// handler untouched.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			var body []byte
			if r.Body != nil {
				body, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			next.ServeHTTP(sw, r)

			dur := time.Since(start)
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Float64("duration_ms", float64(dur.Microseconds())/1000.0),
				slog.Int("size", sw.bytes),
				slog.String("ip", clientIP(r)),
				slog.String("ua", r.UserAgent()),
			}
			if len(body) > 0 {
				logged := body
				if len(logged) > maxLoggedBody {
					logged = logged[:maxLoggedBody]
				}
				attrs = append(attrs, slog.String("body", string(logged)))
			}

			logger.Info("http_request", attrs...)
		})
	}
}

func clientIP(r *http.Request) string {
	return r.RemoteAddr
}
