// Package httpapi exposes the transfer service over HTTP. Progress is
// streamed to clients as server-sent events; everything else is plain
// JSON.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driving"
	"github.com/ftransport/ftransport/internal/logger"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(svc driving.TransferService, defaultMode domain.DestinationMode) http.Handler {
	h := &handler{svc: svc, defaultMode: defaultMode}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests)

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", h.createTransfer)
			r.Get("/", h.listTransfers)
			r.Post("/validate-url", h.validateURL)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getTransfer)
				r.Delete("/", h.cancelTransfer)
				r.Post("/start", h.startTransfer)
				r.Get("/status", h.getStatus)
				r.Get("/files", h.listFiles)
				r.Get("/events", h.streamEvents)
			})
		})
	})

	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
