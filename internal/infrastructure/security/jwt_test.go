package security

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("secret")
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.True(t, IsAdminClaims(claims))
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("secret")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateJWT_EmptySecretRejectsForgedToken(t *testing.T) {
	// A token signed with an empty HMAC key must never validate, even
	// when no secret is configured.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}).SignedString([]byte(""))
	require.NoError(t, err)

	_, err = ValidateJWT(forged, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoJWTSecret)
}

func TestGenerateAdminToken_EmptySecret(t *testing.T) {
	_, err := GenerateAdminToken("")
	assert.ErrorIs(t, err, ErrNoJWTSecret)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token", "secret")
	assert.Error(t, err)
}

func TestVerifyAdminPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, VerifyAdminPassword("hunter2", hash))
	assert.False(t, VerifyAdminPassword("wrong", hash))
	assert.False(t, VerifyAdminPassword("hunter2", ""))
	assert.False(t, VerifyAdminPassword("", hash))
}
