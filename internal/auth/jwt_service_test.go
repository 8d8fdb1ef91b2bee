package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "lostfound"})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{UserID: "user-1", Role: "mahasiswa"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "mahasiswa", claims.Role)
	require.NotEmpty(t, claims.ID)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	current := time.Now()
	svc, err := NewJWTService(JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: time.Minute,
		Clock:          func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{UserID: "user-1", Role: "admin"})
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	issuing, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "other"})
	require.NoError(t, err)
	validating, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "lostfound"})
	require.NoError(t, err)

	token, err := issuing.GenerateAccessToken(AccessTokenInput{UserID: "user-1"})
	require.NoError(t, err)

	_, err = validating.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestMemoryDenylist(t *testing.T) {
	deny := NewMemoryDenylist()
	ctx := context.Background()

	revoked, err := deny.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, deny.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = deny.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestMemoryDenylistExpiry(t *testing.T) {
	deny := NewMemoryDenylist()
	current := time.Now()
	deny.now = func() time.Time { return current }

	ctx := context.Background()
	require.NoError(t, deny.Revoke(ctx, "jti-2", time.Minute))

	current = current.Add(2 * time.Minute)
	revoked, err := deny.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, revoked)
}
