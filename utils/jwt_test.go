package utils

import (
	"testing"
	"time"

	"recicleaqui/config"
	"recicleaqui/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = secret
	t.Cleanup(func() { config.AppConfig.JWTSecret = prev })
}

func TestGenerateAndParseToken(t *testing.T) {
	withSecret(t, "test-secret")

	token, err := GenerateToken("user-1", models.RoleCollector, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, models.RoleCollector, claims.Role)
}

func TestParseToken_Rejects(t *testing.T) {
	withSecret(t, "test-secret")

	expired, err := GenerateToken("user-1", models.RoleClient, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	anonymous, err := GenerateToken("", models.RoleClient, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(anonymous)
	assert.Error(t, err)

	valid, err := GenerateToken("user-1", models.RoleClient, time.Hour)
	require.NoError(t, err)
	config.AppConfig.JWTSecret = "rotated"
	_, err = ParseToken(valid)
	assert.Error(t, err)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	withSecret(t, "")
	_, err := GenerateToken("user-1", models.RoleClient, time.Hour)
	assert.Error(t, err)
}
