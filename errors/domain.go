package errors

import (
	"errors"
	"fmt"
)

// InvariantKind classifies an invariant violation.
type InvariantKind string

const (
	KindDomain InvariantKind = "domain"
	KindState  InvariantKind = "state"
)

// InvariantError is the single error type for field and state violations.
type InvariantError struct {
	Kind   InvariantKind
	Base   error
	Field  string
	Reason string
}

func (e InvariantError) Error() string {
	switch e.Kind {
	case KindState:
		if e.Reason == "" {
			if e.Base == nil {
				return "state: invalid"
			}
			return fmt.Sprintf("state: %v", e.Base)
		}
		if e.Base == nil {
			return fmt.Sprintf("state: %s", e.Reason)
		}
		return fmt.Sprintf("state: %v: %s", e.Base, e.Reason)
	default:
		if e.Field == "" {
			return e.Reason
		}
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
}

// Unwrap supports errors.Is / errors.As against Base.
func (e InvariantError) Unwrap() error {
	return e.Base
}

// DomainInvariant reports a field-level violation, e.g. "vat: empty".
func DomainInvariant(field, reason string) error {
	return InvariantError{Kind: KindDomain, Field: field, Reason: reason}
}

// WrapDomainInvariant is DomainInvariant with a sentinel callers can match with errors.Is.
func WrapDomainInvariant(base error, field, reason string) error {
	return InvariantError{Kind: KindDomain, Base: base, Field: field, Reason: reason}
}

// StateInvariant reports an invalid state, e.g. a history record without a lookup time.
func StateInvariant(base error, field, reason string) error {
	return InvariantError{Kind: KindState, Base: base, Field: field, Reason: reason}
}

// IsInvariant reports whether err is an InvariantError.
func IsInvariant(err error) bool {
	var ie InvariantError
	return errors.As(err, &ie)
}
