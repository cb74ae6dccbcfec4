package configs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// shield the test from values set in the host environment; t.Setenv
	// registers the restore, os.Unsetenv makes the variable truly unset
	for _, key := range []string{"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "HISTORY_CAPACITY", "PROFANITY_ADD", "PROFANITY_REMOVE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 50, cfg.HistoryCapacity)
	assert.Equal(t, []string{"kill"}, cfg.ProfanityAdd)
	assert.Equal(t, []string{"hell"}, cfg.ProfanityRemove)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("rejects privileged port", func(t *testing.T) {
		t.Setenv("PORT", "80")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("rejects non-numeric port", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("rejects zero history capacity", func(t *testing.T) {
		t.Setenv("HISTORY_CAPACITY", "0")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestLoadConfigOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , https://b.example ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigProfanityOverrides(t *testing.T) {
	t.Setenv("PROFANITY_ADD", "foo,bar")
	t.Setenv("PROFANITY_REMOVE", "baz")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"foo", "bar"}, cfg.ProfanityAdd)
	assert.Equal(t, []string{"baz"}, cfg.ProfanityRemove)
}
