// Package format matches canonical VAT strings against fixed positional masks.
//
// A mask is read one position at a time:
//
//	9      an ASCII digit
//	A      an upper-case ASCII letter
//	#      a digit or an upper-case letter
//	[...]  one byte from a class of literals and ranges, e.g. [A-W], [012], [A-IW]
//
// Any other byte matches itself. Masks always describe the whole string, so a
// match implies an exact length.
package format

import (
	"fmt"
	"strings"
)

type class [4]uint64

func (c *class) add(b byte) { c[b>>6] |= 1 << (b & 63) }
func (c *class) addRange(lo, hi byte) {
	for b := int(lo); b <= int(hi); b++ {
		c.add(byte(b))
	}
}
func (c *class) has(b byte) bool { return c[b>>6]&(1<<(b&63)) != 0 }

var (
	digitClass  class
	letterClass class
	alnumClass  class
)

func init() {
	digitClass.addRange('0', '9')
	letterClass.addRange('A', 'Z')
	alnumClass.addRange('0', '9')
	alnumClass.addRange('A', 'Z')
}

// Shape is a compiled mask. The zero Shape matches only the empty string.
type Shape struct {
	mask string
	pos  []class
}

// Compile parses mask.
func Compile(mask string) (Shape, error) {
	var pos []class
	for i := 0; i < len(mask); i++ {
		switch c := mask[i]; c {
		case '9':
			pos = append(pos, digitClass)
		case 'A':
			pos = append(pos, letterClass)
		case '#':
			pos = append(pos, alnumClass)
		case '[':
			end := strings.IndexByte(mask[i:], ']')
			if end < 2 {
				return Shape{}, fmt.Errorf("format: bad class at %d in %q", i, mask)
			}
			pos = append(pos, parseClass(mask[i+1:i+end]))
			i += end
		default:
			var lit class
			lit.add(c)
			pos = append(pos, lit)
		}
	}
	return Shape{mask: mask, pos: pos}, nil
}

// MustCompile is Compile for package-level rule tables.
func MustCompile(mask string) Shape {
	s, err := Compile(mask)
	if err != nil {
		panic(err)
	}
	return s
}

// Digits is the shape of exactly n ASCII digits.
func Digits(n int) Shape {
	return MustCompile(strings.Repeat("9", n))
}

func parseClass(body string) class {
	var c class
	for i := 0; i < len(body); i++ {
		if i+2 < len(body) && body[i+1] == '-' {
			c.addRange(body[i], body[i+2])
			i += 2
			continue
		}
		c.add(body[i])
	}
	return c
}

// Len is the exact length a matching string has.
func (s Shape) Len() int { return len(s.pos) }

func (s Shape) String() string { return s.mask }

// Match reports whether v fits the shape and returns it as a Token.
func (s Shape) Match(v string) (Token, bool) {
	if len(v) != len(s.pos) {
		return Token{}, false
	}
	for i := 0; i < len(v); i++ {
		if !s.pos[i].has(v[i]) {
			return Token{}, false
		}
	}
	return Token{s: v}, true
}

// MatchAny returns the token of the first shape that v fits.
func MatchAny(v string, shapes ...Shape) (Token, bool) {
	for _, s := range shapes {
		if t, ok := s.Match(v); ok {
			return t, true
		}
	}
	return Token{}, false
}
