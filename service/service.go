// Package service ties offline validation, VIES lookups, the lookup history
// and metrics together behind one API used by the HTTP layer.
package service

import (
	"context"
	"time"

	"github.com/vortex-fintech/go-vat/errors"
	"github.com/vortex-fintech/go-vat/history"
	"github.com/vortex-fintech/go-vat/jurisdiction"
	"github.com/vortex-fintech/go-vat/logger"
	"github.com/vortex-fintech/go-vat/metrics"
	"github.com/vortex-fintech/go-vat/piiutil"
	"github.com/vortex-fintech/go-vat/retry"
	"github.com/vortex-fintech/go-vat/timeutil"
	"github.com/vortex-fintech/go-vat/vat"
	"github.com/vortex-fintech/go-vat/vies"
)

// Registry is the offline rule registry; vat.Registry implements it.
type Registry interface {
	vat.Validator
	Explain(code, raw string) (vat.Result, error)
	JurisdictionsWhereValid(raw string) []jurisdiction.Code
}

type Metrics interface {
	ObserveValidation(code string, valid bool)
	ObserveWhere(matches int)
	ObserveLookup(code, outcome string, d time.Duration)
}

type History interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
	Recent(ctx context.Context, code jurisdiction.Code, number string, limit int) ([]history.Entry, error)
}

type Service struct {
	registry Registry
	checker  vies.Checker
	history  History
	metrics  Metrics
	log      logger.ContextLogger
	clock    timeutil.Clock
}

type Option func(*Service)

// WithChecker enables Check. Without it Check fails with FailedPrecondition.
func WithChecker(c vies.Checker) Option { return func(s *Service) { s.checker = c } }

// WithHistory enables recording and Recent.
func WithHistory(h History) Option { return func(s *Service) { s.history = h } }

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithLogger(l logger.ContextLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(c timeutil.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithRegistry(r Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		registry: vat.Default,
		metrics:  nopMetrics{},
		log:      logger.Nop(),
		clock:    timeutil.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Jurisdictions() []jurisdiction.Info {
	all := jurisdiction.All()
	out := make([]jurisdiction.Info, 0, len(all))
	for _, c := range all {
		out = append(out, c.Info())
	}
	return out
}

// Validate checks raw offline. Only an unknown code is an error.
func (s *Service) Validate(ctx context.Context, code, raw string) (vat.Result, error) {
	res, err := s.registry.Explain(code, raw)
	if err != nil {
		return vat.Result{}, err
	}
	s.metrics.ObserveValidation(res.Jurisdiction.String(), res.Valid)
	s.log.DebugwCtx(ctx, "vat validated",
		"jurisdiction", res.Jurisdiction,
		"vat", piiutil.MaskVAT(res.Canonical),
		"valid", res.Valid,
		"scheme", res.Scheme,
	)
	if res.Canonical != "" {
		s.record(ctx, history.Entry{
			Jurisdiction: res.Jurisdiction,
			VATNumber:    res.Canonical,
			Valid:        res.Valid,
			Source:       history.SourceOffline,
		})
	}
	return res, nil
}

// Where lists every jurisdiction whose rule accepts raw.
func (s *Service) Where(ctx context.Context, raw string) []jurisdiction.Code {
	codes := s.registry.JurisdictionsWhereValid(raw)
	s.metrics.ObserveWhere(len(codes))
	s.log.DebugwCtx(ctx, "vat where", "vat", piiutil.MaskVAT(raw), "matches", len(codes))
	return codes
}

// Check asks VIES whether raw is registered in code.
func (s *Service) Check(ctx context.Context, code, raw string) (vies.Result, error) {
	if s.checker == nil {
		return vies.Result{}, errors.FailedPrecondition().
			WithReason("vies_disabled").
			WithMessage("VIES lookups are disabled")
	}
	req, err := vies.NewRequest(code, raw)
	if err != nil {
		return vies.Result{}, err
	}

	start := s.clock.Now()
	res, err := s.checker.Check(ctx, req)
	elapsed := s.clock.Since(start)

	if err != nil {
		s.metrics.ObserveLookup(req.CountryCode, metrics.OutcomeError, elapsed)
		s.log.WarnwCtx(ctx, "vies lookup failed",
			"jurisdiction", req.CountryCode,
			"vat", piiutil.MaskVAT(req.VATNumber),
			"error", err,
		)
		return vies.Result{}, err
	}

	outcome, source := metrics.OutcomeInvalid, history.SourceVIES
	switch {
	case res.Cached:
		outcome, source = metrics.OutcomeCacheHit, history.SourceCache
	case res.Valid:
		outcome = metrics.OutcomeValid
	}
	s.metrics.ObserveLookup(req.CountryCode, outcome, elapsed)
	s.log.InfowCtx(ctx, "vies lookup",
		"jurisdiction", req.CountryCode,
		"vat", piiutil.MaskVAT(req.VATNumber),
		"valid", res.Valid,
		"cached", res.Cached,
		"elapsed", elapsed,
	)
	s.record(ctx, history.Entry{
		Jurisdiction: res.CountryCode,
		VATNumber:    res.VATNumber,
		Valid:        res.Valid,
		Source:       source,
		Name:         res.Name,
	})
	return res, nil
}

// Recent returns the latest recorded lookups of raw in code.
func (s *Service) Recent(ctx context.Context, code, raw string, limit int) ([]history.Entry, error) {
	if s.history == nil {
		return nil, errors.FailedPrecondition().
			WithReason("history_disabled").
			WithMessage("lookup history is disabled")
	}
	req, err := vies.NewRequest(code, raw)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.Recent(ctx, jurisdiction.Code(req.CountryCode), req.VATNumber, limit)
	if err != nil {
		s.log.ErrorwCtx(ctx, "history read failed", "jurisdiction", req.CountryCode, "error", err)
		return nil, errors.Unavailable().WithReason("history_unavailable")
	}
	return entries, nil
}

// record writes e best effort; a failed write never fails the lookup.
func (s *Service) record(ctx context.Context, e history.Entry) {
	if s.history == nil {
		return
	}
	e.RequestID = logger.RequestID(ctx)
	e.CheckedAt = s.clock.Now()
	err := retry.RetryFast(ctx, func() error {
		_, err := s.history.Record(ctx, e)
		return err
	})
	if err != nil {
		s.log.WarnwCtx(ctx, "history write failed", "jurisdiction", e.Jurisdiction, "error", err)
	}
}

type nopMetrics struct{}

func (nopMetrics) ObserveValidation(string, bool)              {}
func (nopMetrics) ObserveWhere(int)                            {}
func (nopMetrics) ObserveLookup(string, string, time.Duration) {}
