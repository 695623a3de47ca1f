package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("admin", "secret", time.Hour, "studio")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret", "studio")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	_, err = ParseAndValidateJWT(token, "other-secret", "studio")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestParseAndValidateJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("admin", "secret", -time.Minute, "studio")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "secret", "studio")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseAndValidateJWT_MissingSubject(t *testing.T) {
	token, err := GenerateJWT("", "secret", time.Hour, "studio")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "secret", "studio")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestParseAndValidateJWT_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    "studio",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "secret", "studio")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestPortalAccessID(t *testing.T) {
	a, err := GeneratePortalAccessID()
	require.NoError(t, err)
	b, err := GeneratePortalAccessID()
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("rahasia")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("rahasia", hash))
	assert.False(t, CheckPasswordHash("salah", hash))
	assert.False(t, CheckPasswordHash("rahasia", ""))
}
