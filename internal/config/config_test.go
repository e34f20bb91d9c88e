package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers_Defaults(t *testing.T) {
	t.Setenv("CFG_TEST_STRING", "")
	t.Setenv("CFG_TEST_DURATION", "not-a-duration")
	t.Setenv("CFG_TEST_BOOL", "maybe")
	t.Setenv("CFG_TEST_INT", "-4")

	assert.Equal(t, "fallback", envString("CFG_TEST_STRING", "fallback"))
	assert.Equal(t, 24*time.Hour, envDuration("CFG_TEST_DURATION", 24*time.Hour))
	assert.True(t, envBool("CFG_TEST_BOOL", true))
	assert.Equal(t, int64(10), envInt64("CFG_TEST_INT", 10))
}

func TestEnvHelpers_Values(t *testing.T) {
	t.Setenv("CFG_TEST_STRING", "notes")
	t.Setenv("CFG_TEST_DURATION", "90m")
	t.Setenv("CFG_TEST_BOOL", "false")
	t.Setenv("CFG_TEST_INT", "1048576")

	assert.Equal(t, "notes", envString("CFG_TEST_STRING", "fallback"))
	assert.Equal(t, 90*time.Minute, envDuration("CFG_TEST_DURATION", time.Hour))
	assert.False(t, envBool("CFG_TEST_BOOL", true))
	assert.Equal(t, int64(1<<20), envInt64("CFG_TEST_INT", 10))
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.Local, (&Config{TimeZone: "Local"}).Location())
	assert.Equal(t, time.Local, (&Config{TimeZone: "Mars/Olympus"}).Location())
	assert.Equal(t, "UTC", (&Config{TimeZone: "UTC"}).Location().String())
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:      "SM Academy",
		JWTSecret:    "super-secret",
		ResendAPIKey: "re_123",
		S3AccessKey:  "AKIA",
		S3SecretKey:  "shh",
		S3Bucket:     "notes",
	}

	safe := cfg.Sanitized()

	assert.Equal(t, "SM Academy", safe.AppName)
	assert.Equal(t, "notes", safe.S3Bucket)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.ResendAPIKey)
	assert.Empty(t, safe.S3AccessKey)
	assert.Empty(t, safe.S3SecretKey)
}
