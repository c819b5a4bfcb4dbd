// Package rules holds the per-jurisdiction VAT validation rules.
//
// A Rule is an ordered list of branches. Each branch pairs one or more
// positional shapes with a check over the matched token; a VAT number is valid
// for the rule when any branch both matches and passes its check. Branches
// without a check accept on shape alone.
//
// Rules are pure and the table is immutable after package initialization.
package rules

import (
	"github.com/vortex-fintech/go-vat/format"
	"github.com/vortex-fintech/go-vat/jurisdiction"
)

// Status tells how much a rule can prove about a number.
type Status int

const (
	// Checked rules verify a check digit or letter on every branch.
	Checked Status = iota
	// Mixed rules have at least one branch that only checks shape or a date.
	Mixed
	// FormatOnly rules verify shape only. A pass is weaker than for Checked.
	FormatOnly
)

func (s Status) String() string {
	switch s {
	case Checked:
		return "checked"
	case Mixed:
		return "mixed"
	case FormatOnly:
		return "format_only"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Check inspects a token that already matched the branch shape.
type Check func(t format.Token) bool

// Branch is one accepted layout of a jurisdiction's VAT number.
type Branch struct {
	Name   string
	Shapes []format.Shape
	Check  Check
}

// Accepts reports whether canonical matches one of the shapes and passes Check.
func (b Branch) Accepts(canonical string) bool {
	t, ok := format.MatchAny(canonical, b.Shapes...)
	if !ok {
		return false
	}
	return b.Check == nil || b.Check(t)
}

// Rule validates canonical VAT bodies (prefix already removed) of one jurisdiction.
type Rule struct {
	Code     jurisdiction.Code
	Status   Status
	Branches []Branch
}

// Valid reports whether any branch accepts canonical.
func (r Rule) Valid(canonical string) bool {
	_, ok := r.Match(canonical)
	return ok
}

// Match returns the name of the first branch that accepts canonical.
func (r Rule) Match(canonical string) (string, bool) {
	for _, b := range r.Branches {
		if b.Accepts(canonical) {
			return b.Name, true
		}
	}
	return "", false
}

func branch(name string, check Check, masks ...string) Branch {
	shapes := make([]format.Shape, 0, len(masks))
	for _, m := range masks {
		shapes = append(shapes, format.MustCompile(m))
	}
	return Branch{Name: name, Shapes: shapes, Check: check}
}

func single(code jurisdiction.Code, check Check, masks ...string) Rule {
	status := Checked
	if check == nil {
		status = FormatOnly
	}
	return Rule{Code: code, Status: status, Branches: []Branch{branch("standard", check, masks...)}}
}

func (r Rule) clone() Rule {
	out := r
	out.Branches = make([]Branch, len(r.Branches))
	for i, b := range r.Branches {
		b.Shapes = append([]format.Shape(nil), b.Shapes...)
		out.Branches[i] = b
	}
	return out
}
