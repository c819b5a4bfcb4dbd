package rules

import (
	"github.com/vortex-fintech/go-vat/checksum"
	"github.com/vortex-fintech/go-vat/format"
	"github.com/vortex-fintech/go-vat/jurisdiction"
)

func austria() Rule {
	return single(jurisdiction.AT, func(t format.Token) bool {
		// Positions 1..7 follow the leading U; every second one is doubled.
		sum := checksum.Luhn(t.Digits(1, 8)) + 4
		return checksum.Complement(sum, 10) == t.Digit(8)
	}, "U99999999")
}

func italy() Rule {
	return single(jurisdiction.IT, func(t format.Token) bool {
		return checksum.Complement(checksum.Luhn(t.Digits(0, 10)), 10) == t.Digit(10)
	}, "99999999999")
}
