package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classhub/authcore/internal/models"
	"github.com/classhub/authcore/internal/util"
)

func newTestTokenService() *TokenService {
	return NewTokenService(&util.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
}

func TestCreateAccessToken_RoundTrip(t *testing.T) {
	ts := newTestTokenService()
	now := time.Now()

	token, expiresAt, err := ts.CreateAccessToken("user-1", models.RoleStudent, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(15*time.Minute), expiresAt, time.Second)

	claims, err := ts.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	ts := newTestTokenService()

	token, _, err := ts.CreateAccessToken("user-1", models.RoleStudent, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = ts.ValidateAccessToken(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	ts := newTestTokenService()
	other := NewTokenService(&util.TokenConfig{
		AccessSecret:  "a-different-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})

	token, _, err := other.CreateAccessToken("user-1", models.RoleStudent, time.Now())
	require.NoError(t, err)

	_, err = ts.ValidateAccessToken(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenClassesUseSeparateSecrets(t *testing.T) {
	ts := newTestTokenService()
	now := time.Now()

	refreshToken, err := ts.CreateRefreshToken("user-1", models.RoleAdmin, now)
	require.NoError(t, err)

	// A refresh token must not pass as an access token, and vice versa.
	_, err = ts.ValidateAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	accessToken, _, err := ts.CreateAccessToken("user-1", models.RoleAdmin, now)
	require.NoError(t, err)
	_, err = ts.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessToken_Malformed(t *testing.T) {
	ts := newTestTokenService()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := ts.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", token)
		assert.NotErrorIs(t, err, ErrTokenExpired, "token %q", token)
	}
}

func TestCreateRefreshToken_DistinctValues(t *testing.T) {
	ts := newTestTokenService()
	now := time.Now()

	first, err := ts.CreateRefreshToken("user-1", models.RoleStudent, now)
	require.NoError(t, err)
	second, err := ts.CreateRefreshToken("user-1", models.RoleStudent, now)
	require.NoError(t, err)

	// Same user, same instant: the JTI still makes the values differ.
	assert.NotEqual(t, first, second)
}
