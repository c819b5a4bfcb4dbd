package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vortex-fintech/go-vat/logger"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxRequestIDLen = 128
)

// requestID propagates X-Request-ID, generating a UUID when the caller sent
// none or an oversized one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
	})
}

func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		if h.metrics != nil {
			h.metrics.ObserveHTTP(route, r.Method, status, time.Since(start))
		}
		h.log.DebugwCtx(r.Context(), "http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"elapsed", time.Since(start),
		)
	})
}
