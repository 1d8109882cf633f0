// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,strong_password"`
}

func TestStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"password123", true},
		{"abc12345", true},
		{"short1", false},
		{"lettersonly", false},
		{"12345678", false},
		{"", false},
	}

	for _, tc := range cases {
		err := ValidateStruct(&credentials{Email: "a@example.com", Password: tc.password})
		if tc.valid {
			assert.NoError(t, err, tc.password)
		} else {
			assert.Error(t, err, tc.password)
		}
	}
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&credentials{Email: "not-an-email", Password: "password123"})
	assert.Error(t, err)

	validationErrors := GetValidationErrors(err)
	assert.Len(t, validationErrors, 1)
	assert.Equal(t, "email", validationErrors[0].Field)
	assert.Equal(t, "Invalid email format", validationErrors[0].Message)
}

func TestGetValidationErrorsNil(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
}
