package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	signed, err := TokenNew(42, TokenAccess, AccessTokenLifetime)
	require.NoError(t, err)

	userID, tokenType, err := TokenCheck(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, TokenAccess, tokenType)
}

func TestTokenCheckExpired(t *testing.T) {
	signed, err := TokenNew(42, TokenAccess, -time.Minute)
	require.NoError(t, err)

	_, _, err = TokenCheck(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenCheckGarbage(t *testing.T) {
	_, _, err := TokenCheck("not-a-token")
	assert.Error(t, err)
}

func TestTokenCheckRejectsZeroUserID(t *testing.T) {
	signed, err := TokenNew(0, TokenAccess, AccessTokenLifetime)
	require.NoError(t, err)

	_, _, err = TokenCheck(signed)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)

	assert.True(t, ComparePasswords(hashed, "secret1"))
	assert.False(t, ComparePasswords(hashed, "secret2"))
}
