package vies

import (
	"github.com/vortex-fintech/go-vat/errors"
)

// Fault is a SOAP fault raised by VIES. Code is the faultstring, e.g. MS_UNAVAILABLE.
type Fault struct {
	Code     string
	SOAPCode string
}

func (f *Fault) Error() string { return "vies: fault " + f.Code }

var temporaryFaults = map[string]struct{}{
	"MS_UNAVAILABLE":                 {},
	"TIMEOUT":                        {},
	"SERVICE_UNAVAILABLE":            {},
	"SERVER_BUSY":                    {},
	"MS_MAX_CONCURRENT_REQ":          {},
	"MS_MAX_CONCURRENT_REQ_TIME":     {},
	"GLOBAL_MAX_CONCURRENT_REQ":      {},
	"GLOBAL_MAX_CONCURRENT_REQ_TIME": {},
}

// Temporary reports whether the same request may succeed later.
func (f *Fault) Temporary() bool {
	_, ok := temporaryFaults[f.Code]
	return ok
}

func (f *Fault) Response() errors.ErrorResponse {
	switch f.Code {
	case "INVALID_INPUT":
		return errors.InvalidArgument().
			WithReason("vies_invalid_input").
			WithDetail("fault", f.Code)
	case "MS_MAX_CONCURRENT_REQ", "MS_MAX_CONCURRENT_REQ_TIME",
		"GLOBAL_MAX_CONCURRENT_REQ", "GLOBAL_MAX_CONCURRENT_REQ_TIME":
		return errors.ResourceExhausted().
			WithReason("upstream_busy").
			WithDetail("fault", f.Code)
	default:
		return errors.Upstream(f.Code)
	}
}
