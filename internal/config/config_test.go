package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Run("set variable wins", func(t *testing.T) {
		t.Setenv("VENDORA_TEST_KEY", "value")
		assert.Equal(t, "value", GetEnv("VENDORA_TEST_KEY", "fallback"))
	})

	t.Run("empty value falls back", func(t *testing.T) {
		t.Setenv("VENDORA_TEST_KEY", "")
		assert.Equal(t, "fallback", GetEnv("VENDORA_TEST_KEY", "fallback"))
	})

	t.Run("unset falls back", func(t *testing.T) {
		assert.Equal(t, "fallback", GetEnv("VENDORA_UNSET_KEY", "fallback"))
	})
}

func TestGetIntEnv(t *testing.T) {
	t.Run("parses a number", func(t *testing.T) {
		t.Setenv("VENDORA_TEST_INT", "42")
		assert.Equal(t, 42, GetIntEnv("VENDORA_TEST_INT", 7))
	})

	t.Run("non-numeric falls back", func(t *testing.T) {
		t.Setenv("VENDORA_TEST_INT", "lots")
		assert.Equal(t, 7, GetIntEnv("VENDORA_TEST_INT", 7))
	})
}

func TestIsProduction(t *testing.T) {
	t.Run("defaults to development", func(t *testing.T) {
		t.Setenv("ENV", "")
		assert.False(t, IsProduction())
	})

	t.Run("production env", func(t *testing.T) {
		t.Setenv("ENV", "production")
		assert.True(t, IsProduction())
	})
}
