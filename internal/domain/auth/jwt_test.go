package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *User {
	return &User{
		ID:          42,
		Username:    "clerk.ruiz",
		Email:       "ruiz@municore.io",
		MayoraltyID: 7,
		Role:        RoleManager,
		IsActive:    true,
	}
}

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	tokenString, expiresAt, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	userCtx, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userCtx.UserID)
	assert.Equal(t, "clerk.ruiz", userCtx.Username)
	assert.Equal(t, int64(7), userCtx.MayoraltyID)
	assert.Equal(t, "ruiz@municore.io", userCtx.Email)
	assert.Equal(t, RoleManager, userCtx.Role)
	assert.False(t, userCtx.IsAdmin)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("right-secret"))
	verifier := NewJWTService(DefaultJWTConfig("wrong-secret"))

	tokenString, _, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	tokenString, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
