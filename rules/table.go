package rules

import "github.com/vortex-fintech/go-vat/jurisdiction"

var table = map[jurisdiction.Code]Rule{}

func init() {
	for _, r := range []Rule{
		austria(), belgium(), bulgaria(), cyprus(), czechia(), germany(),
		denmark(), estonia(), greece(), spain(), finland(), france(),
		unitedKingdom(), croatia(), hungary(), ireland(), italy(),
		lithuania(), luxembourg(), latvia(), malta(), netherlands(),
		poland(), portugal(), romania(), sweden(), slovenia(), slovakia(),
	} {
		if _, dup := table[r.Code]; dup {
			panic("rules: duplicate rule for " + r.Code.String())
		}
		table[r.Code] = r
	}
	for _, c := range jurisdiction.All() {
		if _, ok := table[c]; !ok {
			panic("rules: missing rule for " + c.String())
		}
	}
}

// Lookup returns the rule registered for code. The returned Rule is a copy.
func Lookup(code jurisdiction.Code) (Rule, bool) {
	r, ok := table[code]
	if !ok {
		return Rule{}, false
	}
	return r.clone(), true
}

// All returns every rule in jurisdiction.All order.
func All() []Rule {
	codes := jurisdiction.All()
	out := make([]Rule, 0, len(codes))
	for _, c := range codes {
		out = append(out, table[c].clone())
	}
	return out
}

// Valid runs the rule for code against a canonical body. Unknown codes are never valid.
func Valid(code jurisdiction.Code, canonical string) bool {
	r, ok := table[code]
	return ok && r.Valid(canonical)
}
