// Package sanitize turns free-form VAT input into its canonical form.
//
// The canonical form holds only upper-case ASCII letters and digits. Input is
// NFKC-folded first, so full-width digits and compatibility letters survive
// while punctuation, whitespace and every other rune are dropped.
package sanitize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// String returns the canonical form of raw. It never fails and is idempotent.
func String(raw string) string {
	if raw == "" {
		return ""
	}
	s := norm.NFKC.String(raw)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - ('a' - 'A'))
		}
	}
	return b.String()
}

// TrimPrefix removes the first of prefixes that canonical starts with, once.
// Prefixes are compared upper-cased.
func TrimPrefix(canonical string, prefixes ...string) string {
	for _, p := range prefixes {
		p = strings.ToUpper(p)
		if p != "" && strings.HasPrefix(canonical, p) {
			return canonical[len(p):]
		}
	}
	return canonical
}

// For canonicalizes raw and strips one leading jurisdiction prefix.
func For(raw string, prefixes ...string) string {
	return TrimPrefix(String(raw), prefixes...)
}
