package piiutil

import (
	"strings"

	"github.com/vortex-fintech/go-vat/sanitize"
)

// MaskVAT canonicalizes a VAT number and masks it for logs.
// Letters stay visible; of the digits only the last 4 are kept (1 when there
// are 4 or fewer). A number without digits keeps only its last character.
//
// Examples:
//
//	"PT 980 405 319" -> "PT*****5319"
//	"ATU13585627"    -> "ATU****5627"
//	"GBGD001"        -> "GBGD**1"
//	"ABC"            -> "**C"
func MaskVAT(raw string) string {
	s := sanitize.String(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	b := []byte(s)
	if !maskDigitsKeepLast4Or1(b) {
		maskAllKeepLast(b, 1)
	}
	return string(b)
}
