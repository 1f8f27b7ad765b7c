package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "local", cfg.StorageType)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("STORAGE_TYPE", "MinIO")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "minio", cfg.StorageType)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://api.example.com", cfg.PublicBaseURL)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadConfigUploadProtection(t *testing.T) {
	t.Setenv("UPLOAD_RATE_PER_DAY", "20")
	t.Setenv("CLAMAV_ADDRESS", "clamav:3310")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 10, cfg.UploadRatePerMinute)
	assert.Equal(t, 20, cfg.UploadRatePerDay)
	assert.Equal(t, "clamav:3310", cfg.ClamAVAddress)
	assert.Equal(t, 30*time.Second, cfg.ClamAVTimeout)
}

func TestLoadConfigProxyAndLoginLimits(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Empty(t, cfg.TrustedProxies, "no proxy is trusted by default")
	assert.Equal(t, 5, cfg.FailedLoginMaxAttempts)
	assert.Equal(t, 20, cfg.FailedLoginIPMaxAttempts)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")
	t.Setenv("FAILED_LOGIN_IP_MAX_ATTEMPTS", "50")
	cfg, err = LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
	assert.Equal(t, 50, cfg.FailedLoginIPMaxAttempts)
}
