//go:build unit
// +build unit

package service_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc/codes"

	"github.com/vortex-fintech/go-vat/errors"
	"github.com/vortex-fintech/go-vat/history"
	"github.com/vortex-fintech/go-vat/jurisdiction"
	"github.com/vortex-fintech/go-vat/logger"
	"github.com/vortex-fintech/go-vat/metrics"
	"github.com/vortex-fintech/go-vat/retry"
	"github.com/vortex-fintech/go-vat/rules"
	"github.com/vortex-fintech/go-vat/service"
	"github.com/vortex-fintech/go-vat/timeutil"
	"github.com/vortex-fintech/go-vat/vies"
)

type fakeChecker struct {
	res  vies.Result
	err  error
	reqs []vies.Request
}

func (f *fakeChecker) Check(_ context.Context, req vies.Request) (vies.Result, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return vies.Result{}, f.err
	}
	r := f.res
	r.CountryCode = jurisdiction.Code(req.CountryCode)
	r.VATNumber = req.VATNumber
	return r, nil
}

type fakeHistory struct {
	mu      sync.Mutex
	entries []history.Entry
	err     error
	calls   int
}

func (h *fakeHistory) Record(_ context.Context, e history.Entry) (history.Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.err != nil {
		return history.Entry{}, h.err
	}
	h.entries = append(h.entries, e)
	return e, nil
}

func (h *fakeHistory) Recent(_ context.Context, code jurisdiction.Code, number string, _ int) ([]history.Entry, error) {
	if h.err != nil {
		return nil, h.err
	}
	var out []history.Entry
	for _, e := range h.entries {
		if e.Jurisdiction == code && e.VATNumber == number {
			out = append(out, e)
		}
	}
	return out, nil
}

type lookup struct {
	code, outcome string
}

type fakeMetrics struct {
	validations map[string]int
	where       []int
	lookups     []lookup
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{validations: map[string]int{}} }

func (m *fakeMetrics) ObserveValidation(code string, valid bool) {
	if valid {
		m.validations[code+":valid"]++
		return
	}
	m.validations[code+":invalid"]++
}
func (m *fakeMetrics) ObserveWhere(n int) { m.where = append(m.where, n) }
func (m *fakeMetrics) ObserveLookup(code, outcome string, _ time.Duration) {
	m.lookups = append(m.lookups, lookup{code, outcome})
}

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func TestValidate(t *testing.T) {
	h := &fakeHistory{}
	m := newFakeMetrics()
	s := service.New(service.WithHistory(h), service.WithMetrics(m), service.WithClock(timeutil.NewFrozenClock(now)))
	ctx := logger.ContextWithRequestID(context.Background(), "req-7")

	res, err := s.Validate(ctx, "pt", "PT 980 405 319")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, rules.Checked, res.Status)

	res, err = s.Validate(ctx, "PT", "PT502757192")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	assert.Equal(t, map[string]int{"PT:valid": 1, "PT:invalid": 1}, m.validations)
	require.Len(t, h.entries, 2)
	assert.Equal(t, history.Entry{
		Jurisdiction: jurisdiction.PT,
		VATNumber:    "980405319",
		Valid:        true,
		Source:       history.SourceOffline,
		RequestID:    "req-7",
		CheckedAt:    now,
	}, h.entries[0])
}

func TestValidate_UnknownAndEmpty(t *testing.T) {
	h := &fakeHistory{}
	s := service.New(service.WithHistory(h))

	_, err := s.Validate(context.Background(), "ZZ", "1")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, jurisdiction.ErrUnknown))

	res, err := s.Validate(context.Background(), "PT", " ")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Empty(t, h.entries)
}

func TestValidate_HistoryFailureIsNotFatal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	h := &fakeHistory{err: retry.Permanent(stderrors.New("duplicate"))}
	s := service.New(service.WithHistory(h), service.WithLogger(logger.FromZap(zap.New(core))))

	res, err := s.Validate(context.Background(), "DK", "DK13585628")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 1, h.calls)
	assert.Equal(t, 1, logs.FilterMessage("history write failed").Len())
}

func TestWhere(t *testing.T) {
	m := newFakeMetrics()
	s := service.New(service.WithMetrics(m))

	got := s.Where(context.Background(), "PT980405319")
	assert.Equal(t, []jurisdiction.Code{jurisdiction.FR, jurisdiction.PT}, got)
	assert.Equal(t, []int{2}, m.where)
}

func TestCheck(t *testing.T) {
	h := &fakeHistory{}
	m := newFakeMetrics()
	checker := &fakeChecker{res: vies.Result{Valid: true, Name: "ACME"}}
	core, logs := observer.New(zap.InfoLevel)
	s := service.New(
		service.WithChecker(checker),
		service.WithHistory(h),
		service.WithMetrics(m),
		service.WithLogger(logger.FromZap(zap.New(core))),
	)

	res, err := s.Check(context.Background(), "EL", "GR 094 259 216")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, []vies.Request{{CountryCode: "EL", VATNumber: "094259216"}}, checker.reqs)
	assert.Equal(t, []lookup{{"EL", metrics.OutcomeValid}}, m.lookups)
	require.Len(t, h.entries, 1)
	assert.Equal(t, history.SourceVIES, h.entries[0].Source)
	assert.Equal(t, "ACME", h.entries[0].Name)

	entry := logs.FilterMessage("vies lookup").All()
	require.Len(t, entry, 1)
	assert.Equal(t, "*****9216", entry[0].ContextMap()["vat"])

	checker.res = vies.Result{Valid: true, Cached: true}
	_, err = s.Check(context.Background(), "EL", "094259216")
	require.NoError(t, err)
	assert.Equal(t, metrics.OutcomeCacheHit, m.lookups[1].outcome)
	assert.Equal(t, history.SourceCache, h.entries[1].Source)
}

func TestCheck_Errors(t *testing.T) {
	s := service.New()
	_, err := s.Check(context.Background(), "PT", "980405319")
	require.Error(t, err)
	assert.Equal(t, codes.FailedPrecondition, errors.ToErrorResponse(err).Code)

	checker := &fakeChecker{err: errors.Upstream("MS_UNAVAILABLE")}
	m := newFakeMetrics()
	s = service.New(service.WithChecker(checker), service.WithMetrics(m))

	_, err = s.Check(context.Background(), "PT", "")
	require.Error(t, err)
	assert.Equal(t, errors.Reason("empty_vat"), errors.ToErrorResponse(err).Reason)
	assert.Empty(t, checker.reqs)

	_, err = s.Check(context.Background(), "PT", "980405319")
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, errors.ToErrorResponse(err).Code)
	assert.Equal(t, []lookup{{"PT", metrics.OutcomeError}}, m.lookups)
}

func TestRecent(t *testing.T) {
	s := service.New()
	_, err := s.Recent(context.Background(), "PT", "980405319", 10)
	assert.Equal(t, codes.FailedPrecondition, errors.ToErrorResponse(err).Code)

	h := &fakeHistory{}
	s = service.New(service.WithHistory(h))
	_, err = s.Validate(context.Background(), "PT", "980405319")
	require.NoError(t, err)

	got, err := s.Recent(context.Background(), "pt", "PT-980405319", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "980405319", got[0].VATNumber)

	h.err = stderrors.New("db down")
	_, err = s.Recent(context.Background(), "PT", "980405319", 10)
	assert.Equal(t, codes.Unavailable, errors.ToErrorResponse(err).Code)
}

func TestJurisdictions(t *testing.T) {
	infos := service.New().Jurisdictions()
	require.Len(t, infos, 28)
	assert.Equal(t, jurisdiction.AT, infos[0].Code)
}
