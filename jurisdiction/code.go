package jurisdiction

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/vortex-fintech/go-vat/errors"
)

// Code is a two-letter VAT jurisdiction code. Greece uses EL, not its ISO code GR.
type Code string

const (
	AT Code = "AT"
	BE Code = "BE"
	BG Code = "BG"
	CY Code = "CY"
	CZ Code = "CZ"
	DE Code = "DE"
	DK Code = "DK"
	EE Code = "EE"
	EL Code = "EL"
	ES Code = "ES"
	FI Code = "FI"
	FR Code = "FR"
	GB Code = "GB"
	HR Code = "HR"
	HU Code = "HU"
	IE Code = "IE"
	IT Code = "IT"
	LT Code = "LT"
	LU Code = "LU"
	LV Code = "LV"
	MT Code = "MT"
	NL Code = "NL"
	PL Code = "PL"
	PT Code = "PT"
	RO Code = "RO"
	SE Code = "SE"
	SI Code = "SI"
	SK Code = "SK"
)

// ErrUnknown is the base of every error returned for a code outside the supported set.
var ErrUnknown = stderrors.New("jurisdiction: unknown code")

var all = [...]Code{
	AT, BE, BG, CY, CZ, DE, DK, EE, EL, ES, FI, FR, GB, HR,
	HU, IE, IT, LT, LU, LV, MT, NL, PL, PT, RO, SE, SI, SK,
}

// aliases maps accepted input spellings onto their canonical code.
var aliases = map[string]Code{
	"GR": EL,
}

var prefixes = map[Code][]string{
	EL: {"EL", "GR"},
}

// All returns the supported codes in registry order. The slice is a copy.
func All() []Code {
	out := make([]Code, len(all))
	copy(out, all[:])
	return out
}

// Parse trims and upper-cases s and resolves it to a supported Code.
//
// Unknown values return an invalid-argument error wrapping ErrUnknown.
func Parse(s string) (Code, error) {
	n, ok := normalizeISO2(s)
	if !ok {
		return "", unknown(s)
	}
	if c, ok := aliases[n]; ok {
		return c, nil
	}
	c := Code(n)
	if !c.Known() {
		return "", unknown(s)
	}
	return c, nil
}

// MustParse is Parse for package-level tables and tests.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Known reports whether c is one of the supported codes (aliases excluded).
func (c Code) Known() bool {
	for _, k := range all {
		if k == c {
			return true
		}
	}
	return false
}

// Prefixes returns the textual prefixes that may precede a VAT number of c.
func (c Code) Prefixes() []string {
	if p, ok := prefixes[c]; ok {
		return append([]string(nil), p...)
	}
	return []string{string(c)}
}

func (c Code) String() string { return string(c) }

func unknown(s string) error {
	base := fmt.Errorf("%w: %q", ErrUnknown, strings.TrimSpace(s))
	return errors.WrapDomainInvariant(base, "jurisdiction", "unknown_jurisdiction")
}

func normalizeISO2(code string) (string, bool) {
	c := strings.TrimSpace(code)
	if len(c) != 2 {
		return "", false
	}
	b0, b1 := c[0], c[1]
	if !isASCIILetter(b0) || !isASCIILetter(b1) {
		return "", false
	}
	return string([]byte{toUpperASCII(b0), toUpperASCII(b1)}), true
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func toUpperASCII(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
