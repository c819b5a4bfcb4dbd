package rules

import (
	"time"

	"github.com/vortex-fintech/go-vat/checksum"
	"github.com/vortex-fintech/go-vat/format"
	"github.com/vortex-fintech/go-vat/jurisdiction"
)

// Rules with several numbering schemes, tried in order.

func bulgaria() Rule {
	legal := func(t format.Token) bool {
		d := t.Digits(0, 8)
		r := checksum.WeightedSum(d, checksum.Sequence(1, 1, 8)) % 11
		if r == 10 {
			r = checksum.WeightedSum(d, checksum.Sequence(3, 1, 8)) % 11
		}
		return r%10 == t.Digit(8)
	}
	person := func(t format.Token) bool {
		sum := checksum.WeightedSum(t.Digits(0, 9), []int{2, 4, 8, 5, 10, 9, 7, 3, 6})
		return sum%11%10 == t.Digit(9) && bulgarianBirthDate(t)
	}
	foreigner := func(t format.Token) bool {
		sum := checksum.WeightedSum(t.Digits(0, 9), []int{21, 19, 17, 13, 11, 9, 7, 3, 1})
		return sum%10 == t.Digit(9)
	}
	misc := func(t format.Token) bool {
		r := 11 - checksum.WeightedSum(t.Digits(0, 9), []int{4, 3, 2, 7, 6, 5, 4, 3, 2})%11
		if r == 10 {
			return false
		}
		return r%11 == t.Digit(9)
	}
	return Rule{
		Code:   jurisdiction.BG,
		Status: Checked,
		Branches: []Branch{
			branch("legal_entity", legal, "999999999"),
			branch("physical_person", person, "9999999999"),
			branch("foreigner", foreigner, "9999999999"),
			branch("miscellaneous", misc, "9999999999"),
		},
	}
}

// bulgarianBirthDate checks the YYMMDD prefix of a personal number. Months
// 21-32 encode the 1800s and 41-52 the 2000s.
func bulgarianBirthDate(t format.Token) bool {
	yy, mm, dd := int(t.Int(0, 2)), int(t.Int(2, 4)), int(t.Int(4, 6))
	switch {
	case mm >= 1 && mm <= 12:
		return realDate(1900+yy, mm, dd)
	case mm >= 21 && mm <= 32:
		return realDate(1800+yy, mm-20, dd)
	case mm >= 41 && mm <= 52:
		return realDate(2000+yy, mm-40, dd)
	default:
		return false
	}
}

func realDate(y, m, d int) bool {
	if m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}

var czechSpecial = [12]int{0, 8, 7, 6, 5, 4, 3, 2, 1, 0, 9, 8}

func czechia() Rule {
	legal := func(t format.Token) bool {
		// Remainder 0 gives 11, so check digit 1.
		sum := checksum.WeightedSum(t.Digits(0, 7), checksum.Sequence(8, -1, 7))
		return (11-sum%11)%10 == t.Digit(7)
	}
	// Individuals born before 1954 carry no check digit; only the date is plausible.
	birth := func(t format.Token) bool {
		yy, mm, dd := t.Int(0, 2), t.Int(2, 4), t.Int(4, 6)
		return yy <= 53 &&
			((mm >= 1 && mm <= 12) || (mm >= 51 && mm <= 62)) &&
			dd >= 1 && dd <= 31
	}
	special := func(t format.Token) bool {
		sum := checksum.WeightedSum(t.Digits(1, 8), checksum.Sequence(8, -1, 7))
		return czechSpecial[11-sum%11] == t.Digit(8)
	}
	individual := func(t format.Token) bool {
		pairs := t.Int(0, 2) + t.Int(2, 4) + t.Int(4, 6) + t.Int(6, 8) + t.Int(8, 10)
		return checksum.Mod(t.Digits(0, 10), 11) == 0 && pairs%11 == 0
	}
	return Rule{
		Code:   jurisdiction.CZ,
		Status: Mixed,
		Branches: []Branch{
			branch("legal_entity", legal, "99999999"),
			branch("individual_birth_date", birth, "999999999"),
			branch("individual_special", special, "999999999"),
			branch("individual", individual, "9999999999"),
		},
	}
}

func lithuania() Rule {
	// The second pass shifts the weights by two; remainder 10 maps to 0.
	check := func(first, second []int) Check {
		return func(t format.Token) bool {
			n := t.Len()
			d := t.Digits(0, n-1)
			last := t.Digit(n - 1)
			r := checksum.WeightedSum(d, first) % 11
			if r%10 != 0 {
				return r == last
			}
			r = checksum.WeightedSum(d, second) % 11
			if r == 10 {
				r = 0
			}
			return r == last
		}
	}
	return Rule{
		Code:   jurisdiction.LT,
		Status: Checked,
		Branches: []Branch{
			branch("legal_person",
				check([]int{1, 2, 3, 4, 5, 6, 7, 8}, []int{3, 4, 5, 6, 7, 8, 9, 1}),
				"9999999[1]9"),
			branch("temporary",
				check([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2}, []int{3, 4, 5, 6, 7, 8, 9, 1, 2, 3, 4}),
				"9999999999[1]9"),
		},
	}
}

func latvia() Rule {
	legal := func(t format.Token) bool {
		r := 3 - checksum.WeightedSum(t.Digits(0, 10), []int{9, 1, 4, 8, 3, 10, 2, 5, 7, 6})%11
		switch {
		case r == -1:
			return false
		case r < -1:
			r += 11
		}
		return r == t.Digit(10)
	}
	birth := func(t format.Token) bool {
		dd, mm := t.Int(0, 2), t.Int(2, 4)
		return dd >= 1 && dd <= 31 && mm >= 1 && mm <= 12
	}
	return Rule{
		Code:   jurisdiction.LV,
		Status: Mixed,
		Branches: []Branch{
			branch("legal_entity", legal, "[4-9]9999999999"),
			branch("personal_code", nil, "32999999999"),
			branch("birth_date", birth, "999999[012]9999"),
		},
	}
}
