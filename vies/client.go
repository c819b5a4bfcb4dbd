// Package vies queries the EU VAT Information Exchange System (checkVat).
//
// Unlike package vat, a VIES answer says whether a number is registered, and
// may carry the trader's name and address. Requests are checked offline first:
// an unknown jurisdiction or an empty number never reaches the network.
package vies

import (
	"bytes"
	"context"
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vortex-fintech/go-vat/errors"
	"github.com/vortex-fintech/go-vat/jurisdiction"
	"github.com/vortex-fintech/go-vat/logger"
	"github.com/vortex-fintech/go-vat/retry"
	"github.com/vortex-fintech/go-vat/validator"
	"github.com/vortex-fintech/go-vat/vat"
)

const (
	DefaultEndpoint = "https://ec.europa.eu/taxation_customs/vies/services/checkVatService"

	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
	defaultMaxElapsed  = 30 * time.Second
	maxResponseBytes   = 1 << 20
)

// Checker looks a VAT number up in a registry.
type Checker interface {
	Check(ctx context.Context, req Request) (Result, error)
}

// Request is a sanitized checkVat query. Build it with NewRequest.
type Request struct {
	CountryCode string `json:"country_code" validate:"required,vat_jurisdiction"`
	VATNumber   string `json:"vat_number" validate:"required,alphanum,max=20"`
}

// NewRequest resolves code and strips the jurisdiction prefix from raw.
func NewRequest(code, raw string) (Request, error) {
	c, err := jurisdiction.Parse(code)
	if err != nil {
		return Request{}, err
	}
	body, err := vat.SanitizeFor(c.String(), raw)
	if err != nil {
		return Request{}, err
	}
	if body == "" {
		return Request{}, errors.EmptyVAT()
	}
	req := Request{CountryCode: c.String(), VATNumber: body}
	if err := validator.Check(req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Key identifies the request in caches and singleflight groups.
func (r Request) Key() string { return r.CountryCode + ":" + r.VATNumber }

type Config struct {
	Endpoint string `validate:"required,url"`
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration `validate:"gte=0"`
	Retry   retry.Policy
}

func (c *Config) normalize() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = defaultMaxAttempts
	}
	if c.Retry.MaxElapsed <= 0 {
		c.Retry.MaxElapsed = defaultMaxElapsed
	}
}

type Client struct {
	cfg Config
	hc  *http.Client
	log logger.LoggerInterface
}

var _ Checker = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithLogger(l logger.LoggerInterface) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.normalize()
	if err := validator.Check(cfg); err != nil {
		return nil, fmt.Errorf("vies: invalid config: %w", err)
	}
	c := &Client{cfg: cfg, hc: http.DefaultClient, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Check sends req to VIES, retrying busy and unavailable faults. Errors are
// errors.ErrorResponse values or context errors.
func (c *Client) Check(ctx context.Context, req Request) (Result, error) {
	if err := validator.Check(req); err != nil {
		return Result{}, err
	}
	payload, err := encodeRequest(req)
	if err != nil {
		return Result{}, errors.Internal().WithReason("encode_failed").WithMessage(err.Error())
	}

	policy := c.cfg.Retry
	if policy.OnRetry == nil {
		policy.OnRetry = func(err error, next time.Duration) {
			c.log.Warnw("vies: retrying checkVat",
				"country", req.CountryCode,
				"next", next,
				"error", err,
			)
		}
	}

	var res Result
	err = retry.Do(ctx, policy, func() error {
		r, err := c.call(ctx, payload, req)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return Result{}, c.toError(ctx, req, err)
	}
	return res, nil
}

func (c *Client) call(ctx context.Context, payload []byte, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, retry.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", `""`)

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, err
	}
	return decodeResponse(resp.StatusCode, body, req)
}

// decodeResponse returns retryable errors for faults VIES marks as transient
// and for 5xx responses without a fault.
func decodeResponse(status int, body []byte, req Request) (Result, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		err = fmt.Errorf("vies: http %d: decode: %w", status, err)
		if status >= http.StatusInternalServerError {
			return Result{}, err
		}
		return Result{}, retry.Permanent(err)
	}

	if f := env.Body.Fault; f != nil {
		fault := &Fault{Code: f.String, SOAPCode: f.Code}
		if fault.Temporary() {
			return Result{}, fault
		}
		return Result{}, retry.Permanent(fault)
	}

	switch {
	case status >= http.StatusInternalServerError:
		return Result{}, fmt.Errorf("vies: http %d", status)
	case status != http.StatusOK:
		return Result{}, retry.Permanent(fmt.Errorf("vies: http %d", status))
	case env.Body.Response == nil:
		return Result{}, retry.Permanent(stderrors.New("vies: response has no checkVatResponse"))
	}
	return env.Body.Response.result(req), nil
}

func (c *Client) toError(ctx context.Context, req Request, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var f *Fault
	if stderrors.As(err, &f) {
		c.log.Warnw("vies: checkVat fault", "country", req.CountryCode, "fault", f.Code)
		return f.Response()
	}
	var er errors.ErrorResponse
	if stderrors.As(err, &er) {
		return er
	}

	c.log.Errorw("vies: checkVat failed", "country", req.CountryCode, "error", err)
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Upstream("timeout")
	}
	return errors.Upstream("transport")
}
