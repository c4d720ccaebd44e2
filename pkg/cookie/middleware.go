package cookie

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tundra/httpkit/pkg/logger"
)

type contextKey struct{}

func WithContext(ctx context.Context, h *Handler) context.Context {
	return context.WithValue(ctx, contextKey{}, h)
}

// FromContext returns the request's cookie handler installed by Middleware.
func FromContext(ctx context.Context) (*Handler, bool) {
	if ctx == nil {
		return nil, false
	}
	h, ok := ctx.Value(contextKey{}).(*Handler)
	return h, ok && h != nil
}

// Middleware gives every request its own Handler with auto-defer enabled.
// Deferred cookies are flushed right before the response header is written,
// and once more when the wrapped handler returns (or panics) without having
// written anything.
func Middleware(opts ...HandlerOption) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hopts := make([]HandlerOption, 0, len(opts)+1)
			hopts = append(hopts, WithAutoDefer(true))
			hopts = append(hopts, opts...)
			h := NewHandler(hopts...)

			fw := &flushWriter{ResponseWriter: w, handler: h}
			defer fw.finish()

			next.ServeHTTP(fw, r.WithContext(WithContext(r.Context(), h)))
		})
	}
}

type flushWriter struct {
	http.ResponseWriter
	handler     *Handler
	wroteHeader bool
}

func (w *flushWriter) flush() {
	if err := w.handler.Flush(w.ResponseWriter); err != nil {
		w.handler.logger.Error("cookie flush failed", logger.Error(err))
	}
}

func (w *flushWriter) finish() {
	if !w.wroteHeader {
		w.flush()
		return
	}
	if n := w.handler.unsent(); n > 0 {
		w.handler.logger.Warn("cookies deferred after the response header was written", slog.Int("count", n))
	}
}

func (w *flushWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.flush()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *flushWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *flushWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *flushWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
