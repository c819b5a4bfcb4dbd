package format

// Token is a string that matched a Shape. Index helpers assume the positions
// they read are digits; the shape guarantees that for the callers in rules.
type Token struct {
	s string
}

func (t Token) String() string { return t.s }
func (t Token) Len() int       { return len(t.s) }

// Char returns the byte at i.
func (t Token) Char(i int) byte { return t.s[i] }

// Digit returns the numeric value of the digit at i.
func (t Token) Digit(i int) int { return int(t.s[i] - '0') }

// Digits returns the digit values of positions [from, to).
func (t Token) Digits(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, t.Digit(i))
	}
	return out
}

// Int reads positions [from, to) as a base-10 number. At most 18 digits fit.
func (t Token) Int(from, to int) int64 {
	var n int64
	for i := from; i < to; i++ {
		n = n*10 + int64(t.Digit(i))
	}
	return n
}

// Slice returns the substring [from, to).
func (t Token) Slice(from, to int) string { return t.s[from:to] }
