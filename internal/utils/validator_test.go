package utils

import (
	"testing"
	"vistoria/internal/types"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"omitempty,oneof=ADMIN INSPECTOR"`
	Name  string `validate:"max=3"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		request  sampleRequest
		expected map[string]string
	}{
		{
			name:     "valid",
			request:  sampleRequest{Email: "a@b.co", Role: "ADMIN"},
			expected: nil,
		},
		{
			name:    "uses json names and params",
			request: sampleRequest{Email: "nope", Role: "ROOT", Name: "long"},
			expected: map[string]string{
				"email": "email",
				"role":  "oneof=ADMIN INSPECTOR",
				"Name":  "max=3",
			},
		},
		{
			name:     "required",
			request:  sampleRequest{},
			expected: map[string]string{"email": "required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Validate(tt.request))
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Email: "a@b.co"}))
	assert.ErrorIs(t, ValidateRequest(sampleRequest{}), types.ErrValidation)
}
