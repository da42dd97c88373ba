package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apperrors "techkb/internal/errors"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.IssueAccessToken(userID, "user@example.com", "EDITOR")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "EDITOR", claims.Role)
}

func TestJWTService_Verify_Expired(t *testing.T) {
	svc := NewJWTService("test-secret")

	// Sign a token that is already past expiry.
	expired := &Claims{
		UserID: uuid.New().String(),
		Email:  "user@example.com",
		Role:   "AUTHOR",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = svc.Verify(tokenString)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func TestJWTService_Verify_WrongKey(t *testing.T) {
	token, err := NewJWTService("secret-a").IssueAccessToken(uuid.New(), "user@example.com", "AUTHOR")
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_Verify_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret")
	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_RefreshTokenCarriesID(t *testing.T) {
	svc := NewJWTService("test-secret")

	tokenID, token, err := svc.IssueRefreshToken(uuid.New(), "user@example.com", "AUTHOR")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	claims, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, tokenID, claims.ID)
}

func TestExtractFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer scheme", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "case-insensitive scheme", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing header", header: "", want: ""},
		{name: "basic scheme rejected", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "no token", header: "Bearer", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromHeader(tt.header))
		})
	}
}
