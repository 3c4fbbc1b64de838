package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("DATABASE_URL", "postgres://localhost/matching")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 1, cfg.DBMaxOpenConns)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://abc.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "https://abc.supabase.co/auth/v1", cfg.JWT.Issuer)
	assert.Equal(t, "authenticated", cfg.JWT.Audience)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("SMTP_HOST", "smtp.example.jp")
	t.Setenv("SMTP_FROM", "noreply@example.jp")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.DBMaxOpenConns)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestLoad_AllowedOriginsFollowSiteBaseURL(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SITE_BASE_URL", "https://koumuten.example.jp/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://koumuten.example.jp", cfg.SiteBaseURL)
	assert.Equal(t, []string{"https://koumuten.example.jp"}, cfg.AllowedOrigins)
	assert.NotContains(t, cfg.AllowedOrigins, "*")
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path, []byte("SUPABASE_JWT_SECRET=file-secret\nSTORE_DRIVER=memory\nHTTP_ADDR=:9090\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []byte("file-secret"), cfg.JWT.Secret)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_JWT_SECRET")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
