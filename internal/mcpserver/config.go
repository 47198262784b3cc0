package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/erraggy/restgen/generator"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled    bool
	CacheMaxSize    int
	CacheFileTTL    time.Duration
	CacheURLTTL     time.Duration
	CacheContentTTL time.Duration

	// Input limits.
	MaxInlineSize   int64
	AllowPrivateIPs bool

	// Generate tool defaults.
	Vendor string
	Strict bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from RESTGEN_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:    envBool("RESTGEN_CACHE_ENABLED", true),
		CacheMaxSize:    envInt("RESTGEN_CACHE_MAX_SIZE", 10),
		CacheFileTTL:    envDuration("RESTGEN_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:     envDuration("RESTGEN_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL: envDuration("RESTGEN_CACHE_CONTENT_TTL", 15*time.Minute),
		MaxInlineSize:   int64(envInt("RESTGEN_MAX_INLINE_SIZE", 10*1024*1024)),
		AllowPrivateIPs: envBool("RESTGEN_ALLOW_PRIVATE_IPS", false),
		Vendor:          envVendor("RESTGEN_VENDOR"),
		Strict:          envBool("RESTGEN_STRICT", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// envVendor accepts only built-in vendor names.
func envVendor(key string) string {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return generator.DefaultVendor
	}
	if _, err := generator.BuiltinVendor(v); err != nil {
		slog.Warn("unknown vendor env var, using default", "key", key, "value", v, "default", generator.DefaultVendor) //nolint:gosec // G706: values are structured log fields, not format strings
		return generator.DefaultVendor
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
