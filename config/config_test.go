package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, "127.0.0.1", c.DBHost)
	assert.Equal(t, "3306", c.DBPort)
	assert.Equal(t, "social", c.DBName)
	assert.Equal(t, 6379, c.RedisPort)
	assert.Equal(t, "http://localhost:8080", c.OAuthRedirectBase)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "release", c.GinMode)
	assert.Equal(t, 10, c.RegisterMaxPerIPPerDay)
	assert.Equal(t, 5, c.RegisterAttemptCooldownSec)
	assert.Equal(t, 20, c.RegisterFailedMaxPerIPPerHour)
	assert.Equal(t, 60, c.RegisterTempBanMinutes)
	assert.Equal(t, filepath.Join("static", "uploads"), c.UploadDir)
	assert.Equal(t, 10, c.UploadMaxSizeMB)

	// Defaults never fill values that were already set.
	c = AppConfig{AppPort: "9000", RateLimitPerMinute: 5}
	applyDefaults(&c)
	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, 5, c.RateLimitPerMinute)
	assert.Equal(t, "http://localhost:9000", c.OAuthRedirectBase)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("ADMIN_USERNAMES", "root, operator")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REGISTER_CAPTCHA_ENABLED", "true")
	t.Setenv("UPLOAD_MAX_SIZE_MB", "3")

	c := AppConfig{AppPort: "8080", RateLimitPerMinute: 60}
	applyEnvOverrides(&c)

	assert.Equal(t, "9999", c.AppPort)
	assert.Equal(t, "env-secret", c.JWTSecret)
	assert.Equal(t, 120, c.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, []string{"root", "operator"}, c.AdminUsernames)
	assert.Equal(t, 6380, c.RedisPort)
	assert.True(t, c.RegisterCaptchaEnabled)
	assert.Equal(t, 3, c.UploadMaxSizeMB)
}

func TestApplyEnvOverrides_IgnoresBadNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("REDIS_PORT", "-1")

	c := AppConfig{RateLimitPerMinute: 60, RedisPort: 6379}
	applyEnvOverrides(&c)

	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, 6379, c.RedisPort)
}

func TestLoadJSONConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"app": {
			"AppPort": "8088",
			"JWTSecret": "file-secret",
			"RateLimitPerMinute": 90,
			"AllowedOrigins": ["https://spa.example"],
			"AdminUsernames": ["root"]
		},
		"database": {"DBHost": "db.internal", "DBName": "socialdb"},
		"redis": {"RedisHost": "cache.internal", "RedisPort": 6390},
		"register": {"CaptchaEnabled": true, "MaxPerIPPerDay": 3},
		"uploads": {"Dir": "/srv/uploads", "MaxSizeMB": 2, "ReaperEnabled": true}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	assert.Equal(t, "8088", c.AppPort)
	assert.Equal(t, "file-secret", c.JWTSecret)
	assert.Equal(t, 90, c.RateLimitPerMinute)
	assert.Equal(t, []string{"https://spa.example"}, c.AllowedOrigins)
	assert.Equal(t, []string{"root"}, c.AdminUsernames)
	assert.Equal(t, "db.internal", c.DBHost)
	assert.Equal(t, "socialdb", c.DBName)
	assert.Equal(t, "cache.internal", c.RedisHost)
	assert.Equal(t, 6390, c.RedisPort)
	assert.True(t, c.RegisterCaptchaEnabled)
	assert.Equal(t, 3, c.RegisterMaxPerIPPerDay)
	assert.Equal(t, "/srv/uploads", c.UploadDir)
	assert.Equal(t, 2, c.UploadMaxSizeMB)
	assert.True(t, c.UploadReaperEnabled)
}

func TestLoadJSONConfig_MissingFileIsFine(t *testing.T) {
	var c AppConfig
	require.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c))
	assert.Equal(t, AppConfig{}, c)
}

func TestLoadJSONConfig_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	var c AppConfig
	assert.Error(t, loadJSONConfig(path, &c))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitAndTrim("a, b ,,c"))
	assert.Empty(t, splitAndTrim(" , "))
}

func TestLoadCachesResult(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")

	first := Load()
	assert.Equal(t, "unit-secret", first.JWTSecret)

	// Later environment changes are invisible once loaded.
	t.Setenv("JWT_SECRET", "changed")
	assert.Equal(t, "unit-secret", Get().JWTSecret)
}
