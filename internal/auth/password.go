package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances brute-force resistance against login latency.
const bcryptCost = 12

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	passwordSymbols   = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"
)

// commonPasswords is a fixed deny-list checked case-insensitively on registration.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"letmein":     {},
	"welcome1":    {},
	"admin123":    {},
	"iloveyou":    {},
}

// HashPassword hashes a plaintext password with bcrypt. The returned hash
// encodes algorithm, cost, and salt, so verification needs no extra state.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with a stored hash in constant
// time. It never returns an error: a malformed hash is logged and treated as
// a mismatch.
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		slog.Warn("password hash comparison failed", "err", err)
	}
	return false
}

// StrengthResult reports every password rule a candidate violates.
type StrengthResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// CheckStrength validates a candidate password against the registration
// rules. All violated rules are returned, not just the first.
func CheckStrength(password string) StrengthResult {
	var violations []string

	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		violations = append(violations, fmt.Sprintf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength))
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasUpper {
		violations = append(violations, "password must contain an uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "password must contain a lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain a digit")
	}
	if !hasSymbol {
		violations = append(violations, "password must contain a symbol")
	}

	if _, found := commonPasswords[strings.ToLower(password)]; found {
		violations = append(violations, "password is too common")
	}

	return StrengthResult{Valid: len(violations) == 0, Errors: violations}
}
