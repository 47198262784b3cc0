package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearRESTGENEnv clears all RESTGEN_* env vars to isolate tests from the ambient environment.
func clearRESTGENEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RESTGEN_CACHE_ENABLED", "RESTGEN_CACHE_MAX_SIZE",
		"RESTGEN_CACHE_FILE_TTL", "RESTGEN_CACHE_URL_TTL",
		"RESTGEN_CACHE_CONTENT_TTL",
		"RESTGEN_MAX_INLINE_SIZE", "RESTGEN_ALLOW_PRIVATE_IPS",
		"RESTGEN_VENDOR", "RESTGEN_STRICT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearRESTGENEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 5*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.False(t, c.AllowPrivateIPs)
	assert.Equal(t, "generic", c.Vendor)
	assert.False(t, c.Strict)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearRESTGENEnv(t)
	t.Setenv("RESTGEN_CACHE_ENABLED", "false")
	t.Setenv("RESTGEN_CACHE_MAX_SIZE", "50")
	t.Setenv("RESTGEN_CACHE_FILE_TTL", "30m")
	t.Setenv("RESTGEN_CACHE_URL_TTL", "2m")
	t.Setenv("RESTGEN_CACHE_CONTENT_TTL", "10m")
	t.Setenv("RESTGEN_MAX_INLINE_SIZE", "5242880")
	t.Setenv("RESTGEN_ALLOW_PRIVATE_IPS", "true")
	t.Setenv("RESTGEN_VENDOR", "Stripe")
	t.Setenv("RESTGEN_STRICT", "true")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 2*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 10*time.Minute, c.CacheContentTTL)
	assert.Equal(t, int64(5242880), c.MaxInlineSize)
	assert.True(t, c.AllowPrivateIPs)
	assert.Equal(t, "stripe", c.Vendor)
	assert.True(t, c.Strict)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearRESTGENEnv(t)
	t.Setenv("RESTGEN_CACHE_MAX_SIZE", "banana")
	t.Setenv("RESTGEN_CACHE_FILE_TTL", "not-a-duration")
	t.Setenv("RESTGEN_CACHE_ENABLED", "maybe")
	t.Setenv("RESTGEN_MAX_INLINE_SIZE", "-1")
	t.Setenv("RESTGEN_VENDOR", "acme")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, "generic", c.Vendor, "unknown vendor should fall back to generic")
}
