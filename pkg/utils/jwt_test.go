package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-board-backend/pkg/models"
)

func testUser() *models.User {
	return &models.User{ID: 42, Username: "alice"}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := NewJWTService("test-secret", 30*time.Minute, 7*24*time.Hour)

	access, refresh, expiresIn, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)
	assert.Greater(t, expiresIn, time.Now().Unix())

	claims, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "access", claims.Type)
	assert.NotEmpty(t, claims.TokenID)

	claims, err = svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)
}

func TestTokenTypeMismatchRejected(t *testing.T) {
	svc := NewJWTService("test-secret", 30*time.Minute, 7*24*time.Hour)
	access, refresh, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, -time.Minute)
	access, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := NewJWTService("secret-a", 30*time.Minute, time.Hour)
	verifier := NewJWTService("secret-b", 30*time.Minute, time.Hour)

	access, _, _, err := issuer.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestRefreshAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", 30*time.Minute, time.Hour)
	_, refresh, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	access, expiresAt, err := svc.RefreshAccessToken(refresh)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	claims, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)

	// An access token is not accepted as a refresh token.
	_, _, err = svc.RefreshAccessToken(access)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret", 30*time.Minute, time.Hour)

	_, err := svc.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
