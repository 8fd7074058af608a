package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"pet-registry/internal/platform/logger"
)

// Recover convierte un panic en 500 problem+json y lo loguea con stack.
func Recover(base logger.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// http.ErrAbortHandler se re-lanza, lo maneja net/http
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.From(r.Context(), base).Error("panic recovered", map[string]any{
					"panic":  fmt.Sprint(rec),
					"stack":  string(debug.Stack()),
					"method": r.Method,
					"path":   r.URL.Path,
				})

				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"type":"about:blank","title":"Internal Server Error","status":500}` + "\n"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
