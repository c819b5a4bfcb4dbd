//go:build unit
// +build unit

package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-vat/format"
)

func TestShapeMatch(t *testing.T) {
	tests := []struct {
		mask string
		in   string
		ok   bool
	}{
		{mask: "U99999999", in: "U13585627", ok: true},
		{mask: "U99999999", in: "X13585627", ok: false},
		{mask: "U99999999", in: "U1358562", ok: false},
		{mask: "99999999A", in: "10259033P", ok: true},
		{mask: "99999999A", in: "102590333", ok: false},
		{mask: "#9999999#", in: "A12345674", ok: true},
		{mask: "#9999999#", in: "X1234567L", ok: true},
		{mask: "#9999999#", in: "a1234567L", ok: false},
		{mask: "[1-9]99999999", in: "980405319", ok: true},
		{mask: "[1-9]99999999", in: "080405319", ok: false},
		{mask: "9999999[A-W][A-IW]", in: "6433435OA", ok: true},
		{mask: "9999999[A-W][A-IW]", in: "1234567FW", ok: true},
		{mask: "9999999[A-W][A-IW]", in: "1234567FJ", ok: false},
		{mask: "9999999[A-W]", in: "1234567X", ok: false},
		{mask: "999999[012]9999", in: "16117519997", ok: true},
		{mask: "999999[012]9999", in: "16117539997", ok: false},
		{mask: "999999999B99", in: "004495445B01", ok: true},
		{mask: "999999999B99", in: "004495445C01", ok: false},
		{mask: "", in: "", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.mask+"/"+tt.in, func(t *testing.T) {
			s := format.MustCompile(tt.mask)
			tok, ok := s.Match(tt.in)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.in, tok.String())
			}
		})
	}
}

func TestShapeLen(t *testing.T) {
	assert.Equal(t, 9, format.MustCompile("[1-9]99999999").Len())
	assert.Equal(t, 9, format.MustCompile("9999999[A-W][A-IW]").Len())
	assert.Equal(t, 7, format.Digits(7).Len())
	assert.Equal(t, "999", format.Digits(3).String())
}

func TestCompileRejectsBrokenClass(t *testing.T) {
	_, err := format.Compile("99[")
	require.Error(t, err)
	_, err = format.Compile("9[]9")
	require.Error(t, err)
	assert.Panics(t, func() { format.MustCompile("[") })
}

func TestMatchAny(t *testing.T) {
	legal := format.Digits(9)
	person := format.Digits(10)

	tok, ok := format.MatchAny("7501010010", legal, person)
	require.True(t, ok)
	assert.Equal(t, 10, tok.Len())

	_, ok = format.MatchAny("75010100", legal, person)
	assert.False(t, ok)
}

func TestToken(t *testing.T) {
	tok, ok := format.Digits(10).Match("2022749619")
	require.True(t, ok)

	assert.Equal(t, 2, tok.Digit(0))
	assert.Equal(t, byte('9'), tok.Char(9))
	assert.Equal(t, []int{2, 0, 2, 2}, tok.Digits(0, 4))
	assert.Equal(t, int64(2022749619), tok.Int(0, 10))
	assert.Equal(t, int64(19), tok.Int(8, 10))
	assert.Equal(t, "7496", tok.Slice(4, 8))
}
