package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pbm-backend/internal/config"
)

func managerWithSecret(secret string) *JWTManager {
	return NewJWTManager(&config.Config{JWT: config.JWTConfig{Secret: secret, ExpiryHours: 1}})
}

func TestJWTRoundTrip(t *testing.T) {
	m := managerWithSecret("test-secret")

	token, err := m.Generate("admin1", "admin")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "admin1", claims.Username)
	require.Equal(t, "admin", claims.Role)
	require.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := managerWithSecret("secret-a").Generate("admin1", "admin")
	require.NoError(t, err)

	_, err = managerWithSecret("secret-b").Verify(token)
	require.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := managerWithSecret("test-secret").Verify("not.a.token")
	require.Error(t, err)
}
