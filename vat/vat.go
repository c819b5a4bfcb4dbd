// Package vat validates European VAT identification numbers offline.
//
// Validation is syntactic plus check digit: a true result means the number is
// well formed for the jurisdiction, not that it is registered. Jurisdictions
// whose rule is format-only (see Status) accept any well-formed number.
//
//	ok, err := vat.Validate("PT", "PT-980 405 319") // true, nil
//	ok, err = vat.Validate("ZZ", "123")            // false, invalid argument
//
// Everything here is pure and safe for concurrent use.
package vat

import (
	"github.com/vortex-fintech/go-vat/jurisdiction"
	"github.com/vortex-fintech/go-vat/rules"
	"github.com/vortex-fintech/go-vat/sanitize"
)

// Validator is the narrow surface consumers depend on.
type Validator interface {
	Validate(code, raw string) (bool, error)
}

// Registry is the fixed rule registry. The zero value is ready to use.
type Registry struct{}

// Default is the package-level registry used by the top-level functions.
var Default Registry

var _ Validator = Registry{}

// Validate reports whether raw is a well-formed VAT number of code.
// The only error is an unknown code; malformed input yields false.
func (Registry) Validate(code, raw string) (bool, error) {
	c, err := jurisdiction.Parse(code)
	if err != nil {
		return false, err
	}
	return rules.Valid(c, strip(c, raw)), nil
}

// Explain is Validate that also reports which numbering scheme accepted raw.
func (Registry) Explain(code, raw string) (Result, error) {
	c, err := jurisdiction.Parse(code)
	if err != nil {
		return Result{}, err
	}
	r, _ := rules.Lookup(c)
	body := strip(c, raw)
	scheme, ok := r.Match(body)
	return Result{
		Jurisdiction: c,
		Canonical:    body,
		Valid:        ok,
		Scheme:       scheme,
		Status:       r.Status,
	}, nil
}

// JurisdictionsWhereValid lists, in jurisdiction.All order, every code whose
// rule accepts raw once that code's own prefix is stripped. It never picks one.
func (Registry) JurisdictionsWhereValid(raw string) []jurisdiction.Code {
	canonical := sanitize.String(raw)
	var out []jurisdiction.Code
	for _, c := range jurisdiction.All() {
		if rules.Valid(c, sanitize.TrimPrefix(canonical, c.Prefixes()...)) {
			out = append(out, c)
		}
	}
	return out
}

// Status returns how strong a pass is for code.
func (Registry) Status(code string) (rules.Status, error) {
	c, err := jurisdiction.Parse(code)
	if err != nil {
		return 0, err
	}
	r, _ := rules.Lookup(c)
	return r.Status, nil
}

// Rules returns copies of every registered rule.
func (Registry) Rules() []rules.Rule { return rules.All() }

// Result is the detailed outcome of Explain.
type Result struct {
	Jurisdiction jurisdiction.Code `json:"jurisdiction"`
	Canonical    string            `json:"canonical"`
	Valid        bool              `json:"valid"`
	Scheme       string            `json:"scheme,omitempty"`
	Status       rules.Status      `json:"status"`
}

// Sanitize returns the canonical form of raw: NFKC-folded, upper-cased ASCII
// letters and digits only. It is idempotent and never fails.
func Sanitize(raw string) string { return sanitize.String(raw) }

// SanitizeFor canonicalizes raw and strips one leading prefix of code.
func SanitizeFor(code, raw string) (string, error) {
	c, err := jurisdiction.Parse(code)
	if err != nil {
		return "", err
	}
	return strip(c, raw), nil
}

// Validate reports whether raw is a well-formed VAT number of code, using Default.
func Validate(code, raw string) (bool, error) { return Default.Validate(code, raw) }

// Explain is Default.Explain.
func Explain(code, raw string) (Result, error) { return Default.Explain(code, raw) }

// JurisdictionsWhereValid lists every jurisdiction whose rule accepts raw, using Default.
func JurisdictionsWhereValid(raw string) []jurisdiction.Code {
	return Default.JurisdictionsWhereValid(raw)
}

func strip(c jurisdiction.Code, raw string) string {
	return sanitize.For(raw, c.Prefixes()...)
}
