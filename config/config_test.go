package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Env:               "development",
		JWTSecret:         devJWTSecret,
		MaxRequestsPerMin: 100,
		RateLimitWindow:   time.Minute,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Env = "production"
	assert.Error(t, cfg.Validate())
	cfg.JWTSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.MaxRequestsPerMin = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.RateLimitWindow = 0
	assert.Error(t, cfg.Validate())
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Config{CORSOrigins: " https://a.example.com, https://b.example.com ,"}
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins())

	cfg.CORSOrigins = ""
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestCloudinaryConfigured(t *testing.T) {
	cfg := Config{CloudinaryCloudName: "demo", CloudinaryAPIKey: "key"}
	assert.False(t, cfg.CloudinaryConfigured())
	cfg.CloudinaryAPISecret = "secret"
	assert.True(t, cfg.CloudinaryConfigured())
}
