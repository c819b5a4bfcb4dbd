//go:build unit
// +build unit

package jurisdiction_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/vortex-fintech/go-vat/errors"
	"github.com/vortex-fintech/go-vat/jurisdiction"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want jurisdiction.Code
		ok   bool
	}{
		{name: "canonical", in: "PT", want: jurisdiction.PT, ok: true},
		{name: "lowercase and spaces", in: "  dk ", want: jurisdiction.DK, ok: true},
		{name: "greek alias", in: "gr", want: jurisdiction.EL, ok: true},
		{name: "greek canonical", in: "EL", want: jurisdiction.EL, ok: true},
		{name: "united kingdom", in: "GB", want: jurisdiction.GB, ok: true},
		{name: "unsupported country", in: "ZZ", ok: false},
		{name: "iso code for united states", in: "US", ok: false},
		{name: "too long", in: "PRT", ok: false},
		{name: "empty", in: "", ok: false},
		{name: "digits", in: "1A", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jurisdiction.Parse(tt.in)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, jurisdiction.ErrUnknown))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_UnknownMapsToInvalidArgument(t *testing.T) {
	_, err := jurisdiction.Parse("ZZ")
	require.Error(t, err)

	resp := errors.ToErrorResponse(err)
	assert.Equal(t, codes.InvalidArgument, resp.Code)
	assert.Equal(t, "unknown_jurisdiction", resp.Details["jurisdiction"])
}

func TestAll(t *testing.T) {
	all := jurisdiction.All()
	require.Len(t, all, 28)
	assert.Equal(t, jurisdiction.AT, all[0])
	assert.Equal(t, jurisdiction.SK, all[len(all)-1])

	seen := map[jurisdiction.Code]bool{}
	for _, c := range all {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
		assert.True(t, c.Known())
		assert.NotEmpty(t, c.Info().Country, "missing info for %s", c)
	}

	all[0] = "XX"
	assert.Equal(t, jurisdiction.AT, jurisdiction.All()[0], "All must return a copy")
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, []string{"PT"}, jurisdiction.PT.Prefixes())
	assert.Equal(t, []string{"EL", "GR"}, jurisdiction.EL.Prefixes())
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { jurisdiction.MustParse("QQ") })
	assert.Equal(t, jurisdiction.IE, jurisdiction.MustParse("ie"))
}
