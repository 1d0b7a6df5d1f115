package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelwatch/postnl/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://jouw.postnl.nl", cfg.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.OTELEnabled)
	assert.Equal(t, "postnl-cli", cfg.ServiceName)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("POSTNL_USERNAME", "jan@example.com")
	t.Setenv("POSTNL_PASSWORD", "hunter2")
	t.Setenv("POSTNL_BASE_URL", "https://staging.example.com")
	t.Setenv("POSTNL_TOKEN_FILE", "/tmp/token.json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "jan@example.com", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)
	assert.Equal(t, "/tmp/token.json", cfg.TokenFile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate_RequiresCredentials(t *testing.T) {
	cfg := &config.Config{}
	assert.Error(t, cfg.Validate())

	cfg.Username = "jan@example.com"
	assert.Error(t, cfg.Validate())

	cfg.Password = "hunter2"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MockNeedsNoCredentials(t *testing.T) {
	cfg := &config.Config{UseMock: true}
	assert.NoError(t, cfg.Validate())
}

func TestAttributes(t *testing.T) {
	cfg := &config.Config{ServiceName: "postnl-cli", Version: "1.2.3", UseMock: true}
	attrs := cfg.Attributes()
	assert.Len(t, attrs, 3)
}
