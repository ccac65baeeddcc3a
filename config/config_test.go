package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "")
	t.Setenv("LOGIN_COOLDOWN", "")
	t.Setenv("GATEWAY_RPS", "")
	t.Setenv("GATEWAY_BURST", "")
	t.Setenv("GATEWAY_TRUSTED_PROXIES", "")

	cfg := Load()

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, 10.0, cfg.GatewayRPS)
	assert.Equal(t, 20, cfg.GatewayBurst)
	assert.Empty(t, cfg.GatewayTrustedProxies)
	assert.Equal(t, 3, cfg.LoginLimit)
	assert.Equal(t, 2*time.Minute, cfg.LoginWindow)
	assert.Equal(t, 3*time.Second, cfg.NotifyTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "5")
	t.Setenv("LOGIN_COOLDOWN", "10m")
	t.Setenv("NOTIFY_TIMEOUT", "not-a-duration")
	t.Setenv("GATEWAY_RPS", "2.5")
	t.Setenv("GATEWAY_TRUSTED_PROXIES", " 10.0.0.0/8, ,172.18.0.1 ")

	cfg := Load()

	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.LoginLimit)
	assert.Equal(t, 10*time.Minute, cfg.LoginWindow)
	assert.Equal(t, 3*time.Second, cfg.NotifyTTL)
	assert.Equal(t, 2.5, cfg.GatewayRPS)
	assert.Equal(t, []string{"10.0.0.0/8", "172.18.0.1"}, cfg.GatewayTrustedProxies)
}
