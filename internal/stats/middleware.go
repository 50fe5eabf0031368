package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// InvalidateAfterWrite bumps the counter cache after any successful
// mutating request on the wrapped routes.
func InvalidateAfterWrite(logger *slog.Logger, service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() >= 200 && ww.Status() < 300 {
				if err := service.Invalidate(r.Context()); err != nil {
					logger.Warn("invalidate stats cache", slog.Any("error", err))
				}
			}
		})
	}
}
