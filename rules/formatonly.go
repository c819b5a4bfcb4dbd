package rules

import "github.com/vortex-fintech/go-vat/jurisdiction"

// Rules without a published or implemented check algorithm. A match here only
// proves the number is well formed.

func germany() Rule {
	return single(jurisdiction.DE, nil, "[1-9]99999999")
}

func spain() Rule {
	return single(jurisdiction.ES, nil, "#9999999#")
}

func france() Rule {
	return single(jurisdiction.FR, nil, "##999999999")
}

func unitedKingdom() Rule {
	return Rule{
		Code:   jurisdiction.GB,
		Status: FormatOnly,
		Branches: []Branch{
			branch("standard", nil, "999999999"),
			branch("branch_trader", nil, "999999999999"),
			branch("government", nil, "GD999"),
			branch("health_authority", nil, "H[A]999"),
			branch("other", nil, "AA999"),
		},
	}
}

// Sweden's organisation number carries a Luhn digit at position 10, but the
// rule does not check it.
func sweden() Rule {
	return single(jurisdiction.SE, nil, "999999999999")
}
