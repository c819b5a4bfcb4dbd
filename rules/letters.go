package rules

import (
	"strings"

	"github.com/vortex-fintech/go-vat/checksum"
	"github.com/vortex-fintech/go-vat/format"
	"github.com/vortex-fintech/go-vat/jurisdiction"
)

// Rules whose check character is a letter.

var cyprusKey = [10]int{1, 0, 5, 7, 9, 13, 15, 17, 19, 21}

func cyprus() Rule {
	return single(jurisdiction.CY, func(t format.Token) bool {
		if t.Slice(0, 2) == "12" {
			return false
		}
		sum := 0
		for i := 0; i < 8; i += 2 {
			sum += cyprusKey[t.Digit(i)] + t.Digit(i+1)
		}
		return t.Char(8) == byte('A'+sum%26)
	}, "99999999A")
}

const (
	irishAlphabet = "WABCDEFGHIJKLMNOPQRSTUV"
	irishSuffix   = "WABCDEFGHI"
)

func ireland() Rule {
	old := func(t format.Token) bool {
		sum := checksum.WeightedSum(t.Digits(2, 7), []int{7, 6, 5, 4, 3}) + 2*t.Digit(0)
		return t.Char(7) == irishAlphabet[sum%23]
	}
	current := func(t format.Token) bool {
		suffix := 0
		if t.Len() == 9 {
			suffix = strings.IndexByte(irishSuffix, t.Char(8))
		}
		sum := checksum.WeightedSum(t.Digits(0, 7), checksum.Sequence(8, -1, 7)) + 9*suffix
		return t.Char(7) == irishAlphabet[sum%23]
	}
	return Rule{
		Code:   jurisdiction.IE,
		Status: Checked,
		Branches: []Branch{
			branch("old_style", old, "9A99999[A-W]"),
			branch("new_style", current, "9999999[A-W]", "9999999[A-W][A-IW]"),
		},
	}
}
