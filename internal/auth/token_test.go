package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:          "unit-test-secret",
		AccessTTLMins:   15,
		RefreshTTLHours: 168,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := SignAccessToken(cfg, 7, "doctor")
	require.NoError(t, err)

	claims, err := VerifyToken(cfg, token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "doctor", claims.Role)
	assert.NotEmpty(t, claims.ID, "tokens carry a jti for revocation")

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	cfg := testJWTConfig()

	access, err := SignAccessToken(cfg, 1, "admin")
	require.NoError(t, err)
	refresh, err := SignRefreshToken(cfg, 1)
	require.NoError(t, err)

	_, err = VerifyToken(cfg, access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = VerifyToken(cfg, refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestWrongSecretRejected(t *testing.T) {
	cfg := testJWTConfig()
	token, err := SignAccessToken(cfg, 1, "admin")
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "different-secret"
	_, err = VerifyToken(other, token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	_, err := VerifyToken(testJWTConfig(), "not.a.jwt", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword("hunter22", hash))
	assert.False(t, CheckPassword("hunter23", hash))
	assert.False(t, CheckPassword("hunter22", "not-a-hash"))
}
