package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Str0ng!pass", hash)

	assert.True(t, VerifyPassword("Str0ng!pass", hash))
	assert.False(t, VerifyPassword("Wr0ng!pass", hash))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	// A malformed hash is treated as a mismatch, never a panic or error.
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("anything", ""))
}

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		valid         bool
		minViolations int
	}{
		{
			name:          "too short and missing classes",
			password:      "abc",
			valid:         false,
			minViolations: 4, // length, upper, digit, symbol
		},
		{
			name:     "meets all rules",
			password: "Abc123!def",
			valid:    true,
		},
		{
			name:          "common password",
			password:      "Password123", // deny-list match is case-insensitive
			valid:         false,
			minViolations: 1,
		},
		{
			name:          "missing symbol only",
			password:      "Abcdef123",
			valid:         false,
			minViolations: 1,
		},
		{
			name:          "over maximum length",
			password:      "Aa1!" + string(make([]byte, 130)),
			valid:         false,
			minViolations: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckStrength(tt.password)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Empty(t, result.Errors)
			} else {
				assert.GreaterOrEqual(t, len(result.Errors), tt.minViolations)
			}
		})
	}
}

func TestCheckStrength_ReturnsAllViolations(t *testing.T) {
	result := CheckStrength("abc")
	assert.False(t, result.Valid)
	// Every violated rule is reported, not just the first.
	assert.GreaterOrEqual(t, len(result.Errors), 4)
}
