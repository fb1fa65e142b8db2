package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]string{})
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, "https://cdn.mockapi.local", cfg.CDNBaseURL)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "filesystem", cfg.FixtureMode)
	assert.Equal(t, "memory", cfg.TokenStore)
	assert.Equal(t, "1", cfg.DemoUserID)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadConfigFlagsAndEnv(t *testing.T) {
	t.Setenv("TOKEN_STORE", "redis")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")

	cfg, err := LoadConfig([]string{"--port", "8080", "--base-url", "https://api.example.com/", "--s3-prefix", "mock/"})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "redis", cfg.TokenStore)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "mock/", cfg.S3.Prefix)
}

func TestLoadConfigRejectsUnknownChoice(t *testing.T) {
	_, err := LoadConfig([]string{"--fixture-mode", "ftp"})
	assert.Error(t, err)
}

func TestApplySecret(t *testing.T) {
	t.Setenv("MOCKAPI_KEEP", "original")
	t.Setenv("MOCKAPI_NEW", "")
	os.Unsetenv("MOCKAPI_NEW")

	applied, err := applySecret([]byte(`{"MOCKAPI_KEEP":"replaced","MOCKAPI_NEW":42}`), false)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, "original", os.Getenv("MOCKAPI_KEEP"))
	assert.Equal(t, "42", os.Getenv("MOCKAPI_NEW"))

	applied, err = applySecret([]byte(`{"MOCKAPI_KEEP":"replaced"}`), true)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, "replaced", os.Getenv("MOCKAPI_KEEP"))

	_, err = applySecret([]byte(`["not","an","object"]`), false)
	assert.Error(t, err)
}
