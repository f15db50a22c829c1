package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDefaults(t *testing.T) {
	t.Setenv("EVELINK_TEST_STRING", "")
	t.Setenv("EVELINK_TEST_INT", "not-a-number")
	t.Setenv("EVELINK_TEST_BOOL", "maybe")
	t.Setenv("EVELINK_TEST_DURATION", "soon")

	assert.Equal(t, "fallback", GetEnv("EVELINK_TEST_STRING", "fallback"))
	assert.Equal(t, 7, GetIntEnv("EVELINK_TEST_INT", 7))
	assert.True(t, GetBoolEnv("EVELINK_TEST_BOOL", true))
	assert.Equal(t, 3*time.Second, GetDurationEnv("EVELINK_TEST_DURATION", 3*time.Second))
}

func TestGetEnvOverrides(t *testing.T) {
	t.Setenv("EVELINK_TEST_STRING", "value")
	t.Setenv("EVELINK_TEST_INT", "42")
	t.Setenv("EVELINK_TEST_BOOL", "false")
	t.Setenv("EVELINK_TEST_DURATION", "1500ms")

	assert.Equal(t, "value", GetEnv("EVELINK_TEST_STRING", "fallback"))
	assert.Equal(t, 42, GetIntEnv("EVELINK_TEST_INT", 7))
	assert.False(t, GetBoolEnv("EVELINK_TEST_BOOL", true))
	assert.Equal(t, 1500*time.Millisecond, GetDurationEnv("EVELINK_TEST_DURATION", time.Second))
}

func TestGetAPIPrefix(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"api", "/api"},
		{"/api/", "/api"},
		{"v1/api", "/v1/api"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("API_PREFIX", tt.raw)
			assert.Equal(t, tt.want, GetAPIPrefix())
		})
	}
}

func TestGetEveAPIBaseURL(t *testing.T) {
	t.Setenv("EVE_API_BASE_URL", "")
	assert.Equal(t, DefaultEveAPIBaseURL, GetEveAPIBaseURL())

	t.Setenv("EVE_API_BASE_URL", "http://localhost:9000/")
	assert.Equal(t, "http://localhost:9000", GetEveAPIBaseURL())
}
