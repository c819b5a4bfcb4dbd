// Package httpapi exposes the VAT service as a JSON API.
//
//	GET  /v1/jurisdictions
//	POST /v1/validate  {"country":"PT","number":"PT980405319"}
//	POST /v1/where     {"number":"PT980405319"}
//	POST /v1/check     {"country":"PT","number":"PT980405319"}
//	GET  /v1/history/{country}/{number}?limit=20
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vortex-fintech/go-vat/errors"
	"github.com/vortex-fintech/go-vat/history"
	"github.com/vortex-fintech/go-vat/jurisdiction"
	"github.com/vortex-fintech/go-vat/logger"
	"github.com/vortex-fintech/go-vat/validator"
	"github.com/vortex-fintech/go-vat/vat"
	"github.com/vortex-fintech/go-vat/vies"
)

const (
	defaultMaxBodyBytes = 64 << 10
	retryAfter          = 30 * time.Second
)

// Service is implemented by *service.Service.
type Service interface {
	Jurisdictions() []jurisdiction.Info
	Validate(ctx context.Context, code, raw string) (vat.Result, error)
	Where(ctx context.Context, raw string) []jurisdiction.Code
	Check(ctx context.Context, code, raw string) (vies.Result, error)
	Recent(ctx context.Context, code, raw string, limit int) ([]history.Entry, error)
}

type Metrics interface {
	ObserveHTTP(route, method string, status int, d time.Duration)
}

type Handler struct {
	svc          Service
	log          logger.ContextLogger
	metrics      Metrics
	maxBodyBytes int64
}

type Option func(*Handler)

func WithLogger(l logger.ContextLogger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func WithMetrics(m Metrics) Option { return func(h *Handler) { h.metrics = m } }

func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

func New(svc Service, opts ...Option) *Handler {
	h := &Handler{svc: svc, log: logger.Nop(), maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, requestID, h.observe)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/jurisdictions", h.jurisdictions)
		r.Post("/validate", h.validate)
		r.Post("/where", h.where)
		r.Post("/check", h.check)
		r.Get("/history/{country}/{number}", h.recent)
	})
	return r
}

type validateRequest struct {
	Country string `json:"country" validate:"required,vat_jurisdiction"`
	Number  string `json:"number" validate:"max=256"`
}

type whereRequest struct {
	Number string `json:"number" validate:"max=256"`
}

type whereResponse struct {
	Number        string              `json:"number"`
	Jurisdictions []jurisdiction.Code `json:"jurisdictions"`
}

type checkRequest struct {
	Country string `json:"country" validate:"required,vat_jurisdiction"`
	Number  string `json:"number" validate:"required,max=256"`
}

type historyResponse struct {
	Entries []history.Entry `json:"entries"`
}

func (h *Handler) jurisdictions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"jurisdictions": h.svc.Jurisdictions()})
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Validate(r.Context(), req.Country, req.Number)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) where(w http.ResponseWriter, r *http.Request) {
	var req whereRequest
	if !h.decode(w, r, &req) {
		return
	}
	codes := h.svc.Where(r.Context(), req.Number)
	if codes == nil {
		codes = []jurisdiction.Code{}
	}
	writeJSON(w, http.StatusOK, whereResponse{Number: vat.Sanitize(req.Number), Jurisdictions: codes})
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Check(r.Context(), req.Country, req.Number)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, r, errors.ValidationFields(map[string]string{"limit": "invalid"}))
			return
		}
		limit = n
	}
	entries, err := h.svc.Recent(r.Context(), chi.URLParam(r, "country"), chi.URLParam(r, "number"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

// decode reads a bounded JSON body into dst and validates it. On failure the
// error has been written and false is returned.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, r, errors.InvalidArgument().
			WithReason("malformed_body").
			WithMessage("request body must be a single JSON object"))
		return false
	}
	if err := validator.Check(dst); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errors.ToErrorResponse(err)
	status := errors.HTTPStatus(resp.Code)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		h.log.ErrorwCtx(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	switch status {
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		resp.ToHTTPWithRetry(w, retryAfter)
	default:
		resp.ToHTTP(w)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
