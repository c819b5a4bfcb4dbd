//go:build unit
// +build unit

package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/vortex-fintech/go-vat/errors"
	"github.com/vortex-fintech/go-vat/validator"
)

type lookup struct {
	Country string `json:"country" validate:"required,vat_jurisdiction"`
	Number  string `json:"number" validate:"required,max=64"`
	Timeout int    `validate:"gte=0"`
}

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, validator.Validate(lookup{Country: "gr", Number: "094259216"}))
}

func TestValidate_Invalid(t *testing.T) {
	res := validator.Validate(lookup{Country: "ZZ", Number: "", Timeout: -1})
	require.NotNil(t, res)
	assert.Equal(t, "unknown_jurisdiction", res["country"])
	assert.Equal(t, "required", res["number"])
	assert.Equal(t, "too_small_or_equal", res["Timeout"])
}

func TestValidate_TooLong(t *testing.T) {
	long := make([]byte, 65)
	for i := range long {
		long[i] = '1'
	}
	res := validator.Validate(lookup{Country: "PT", Number: string(long)})
	assert.Equal(t, "too_long", res["number"])
}

func TestValidate_ErrorType(t *testing.T) {
	res := validator.Validate(123)
	require.NotNil(t, res)
	assert.Equal(t, "validation_failed", res["_error"])
}

func TestCheck(t *testing.T) {
	require.NoError(t, validator.Check(lookup{Country: "PT", Number: "1"}))

	err := validator.Check(lookup{Country: "", Number: "1"})
	require.Error(t, err)
	resp := errors.ToErrorResponse(err)
	assert.Equal(t, codes.InvalidArgument, resp.Code)
	assert.Equal(t, "required", resp.Details["country"])
}

func TestInstance(t *testing.T) {
	assert.NotNil(t, validator.Instance())
}
