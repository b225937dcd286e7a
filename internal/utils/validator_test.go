// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommissionSplit(t *testing.T) {
	type payload struct {
		Split int `validate:"commission_split"`
	}

	assert.NoError(t, ValidateStruct(&payload{Split: 1}))
	assert.NoError(t, ValidateStruct(&payload{Split: 50}))
	assert.NoError(t, ValidateStruct(&payload{Split: 99}))

	assert.Error(t, ValidateStruct(&payload{Split: 0}))
	assert.Error(t, ValidateStruct(&payload{Split: 100}))
	assert.Error(t, ValidateStruct(&payload{Split: -5}))
}

func TestValidateStrongPassword(t *testing.T) {
	type payload struct {
		Password string `validate:"strong_password"`
	}

	assert.NoError(t, ValidateStruct(&payload{Password: "Str0ng!pass"}))

	assert.Error(t, ValidateStruct(&payload{Password: "short1!"}))
	assert.Error(t, ValidateStruct(&payload{Password: "alllowercase1!"}))
	assert.Error(t, ValidateStruct(&payload{Password: "NoNumbers!"}))
	assert.Error(t, ValidateStruct(&payload{Password: "NoSpecial123"}))
}

func TestGetValidationErrors(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=3"`
	}

	err := ValidateStruct(&payload{Email: "not-an-email", Name: "ab"})
	require.Error(t, err)

	validationErrors := GetValidationErrors(err)
	require.Len(t, validationErrors, 2)
	assert.Equal(t, "email", validationErrors[0].Field)
	assert.Equal(t, "Invalid email format", validationErrors[0].Message)
	assert.Equal(t, "name", validationErrors[1].Field)
}
