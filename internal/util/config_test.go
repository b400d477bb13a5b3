package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTokenConfig(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "2m")

	cfg := NewTokenConfig()
	assert.Equal(t, "access-secret", cfg.AccessSecret)
	assert.Equal(t, "refresh-secret", cfg.RefreshSecret)
	assert.Equal(t, 2*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTTL)
}

func TestNewServerConfigDefaults(t *testing.T) {
	cfg := NewServerConfig()
	assert.NotEmpty(t, cfg.ServerAddr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.GracefulTimeout)
}

func TestNewSessionStoreConfigDefault(t *testing.T) {
	cfg := NewSessionStoreConfig()
	assert.Equal(t, "memory", cfg.Backend)
}
