package rules

import (
	"github.com/vortex-fintech/go-vat/checksum"
	"github.com/vortex-fintech/go-vat/format"
	"github.com/vortex-fintech/go-vat/jurisdiction"
)

// Rules whose check digit is a weighted sum reduced by a single modulus.

func belgium() Rule {
	// Nine-digit numbers are the old scheme with an implied leading zero.
	return single(jurisdiction.BE, func(t format.Token) bool {
		n := t.Len()
		return 97-t.Int(0, n-2)%97 == t.Int(n-2, n)
	}, "[1-9]99999999", "0[1-9]99999999")
}

func denmark() Rule {
	return single(jurisdiction.DK, func(t format.Token) bool {
		return checksum.WeightedSum(t.Digits(0, 8), []int{2, 7, 6, 5, 4, 3, 2, 1})%11 == 0
	}, "[1-9]9999999")
}

func estonia() Rule {
	return single(jurisdiction.EE, func(t format.Token) bool {
		sum := checksum.WeightedSum(t.Digits(0, 8), []int{3, 7, 1, 3, 7, 1, 3, 7})
		return checksum.Complement(sum, 10) == t.Digit(8)
	}, "999999999")
}

func greece() Rule {
	return single(jurisdiction.EL, func(t format.Token) bool {
		sum := checksum.WeightedSum(t.Digits(0, 8), []int{256, 128, 64, 32, 16, 8, 4, 2})
		return sum%11%10 == t.Digit(8)
	}, "999999999")
}

func finland() Rule {
	return single(jurisdiction.FI, func(t format.Token) bool {
		return checksum.WeightedSum(t.Digits(0, 8), []int{7, 9, 10, 5, 8, 4, 2, 1})%11 == 0
	}, "99999999")
}

func croatia() Rule {
	return single(jurisdiction.HR, func(t format.Token) bool {
		return (checksum.Mod11_10(t.Digits(0, 10))+t.Digit(10))%10 == 1
	}, "99999999999")
}

func hungary() Rule {
	return single(jurisdiction.HU, func(t format.Token) bool {
		sum := checksum.WeightedSum(t.Digits(0, 7), []int{9, 7, 3, 1, 9, 7, 3})
		return checksum.Complement(sum, 10) == t.Digit(7)
	}, "99999999")
}

func luxembourg() Rule {
	return single(jurisdiction.LU, func(t format.Token) bool {
		return t.Int(0, 6)%89 == t.Int(6, 8)
	}, "99999999")
}

func malta() Rule {
	return single(jurisdiction.MT, func(t format.Token) bool {
		sum := checksum.WeightedSum(t.Digits(0, 6), []int{3, 4, 6, 7, 8, 9})
		return int64(37-sum%37) == t.Int(6, 8)
	}, "99999999")
}

func netherlands() Rule {
	return single(jurisdiction.NL, func(t format.Token) bool {
		r := checksum.WeightedSum(t.Digits(0, 8), checksum.Sequence(9, -1, 8)) % 11
		return r != 10 && r == t.Digit(8)
	}, "999999999B99")
}

func poland() Rule {
	return single(jurisdiction.PL, func(t format.Token) bool {
		r := checksum.WeightedSum(t.Digits(0, 9), []int{6, 5, 7, 2, 3, 4, 5, 6, 7}) % 11
		return r != 10 && r == t.Digit(9)
	}, "9999999999")
}

func portugal() Rule {
	// Remainders 0 and 1 both yield check digit 0.
	return single(jurisdiction.PT, func(t format.Token) bool {
		sum := checksum.WeightedSum(t.Digits(0, 8), checksum.Sequence(9, -1, 8))
		return checksum.Complement(sum, 11)%10 == t.Digit(8)
	}, "[1-9]99999999")
}

var romaniaWeights = []int{7, 5, 3, 2, 1, 7, 5, 3, 2}

func romania() Rule {
	masks := make([]string, 0, 9)
	for n := 2; n <= 10; n++ {
		masks = append(masks, format.Digits(n).String())
	}
	return single(jurisdiction.RO, func(t format.Token) bool {
		n := t.Len()
		sum := checksum.WeightedSum(t.Digits(0, n-1), romaniaWeights[10-n:])
		check := 10 * sum % 11
		if check == 10 {
			check = 0
		}
		return check == t.Digit(n-1)
	}, masks...)
}

func slovenia() Rule {
	return single(jurisdiction.SI, func(t format.Token) bool {
		r := 11 - checksum.WeightedSum(t.Digits(0, 7), checksum.Sequence(8, -1, 7))%11
		switch r {
		case 11:
			return false
		case 10:
			r = 0
		}
		return r == t.Digit(7)
	}, "99999999")
}

func slovakia() Rule {
	return single(jurisdiction.SK, func(t format.Token) bool {
		return checksum.Mod(t.Digits(0, 10), 11) == 0
	}, "9999999999")
}
