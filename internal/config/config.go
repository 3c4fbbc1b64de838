package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// JWTConfig defines the verification parameters of the identity provider's access tokens.
type JWTConfig struct {
	Issuer   string
	Audience string
	Secret   []byte
}

// SupabaseConfig points at the hosted identity provider.
type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

// SMTPConfig is used for notification mail. Host empty disables sending.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether notification mail can be sent.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// RateLimitConfig throttles anonymous inquiry submission per client IP.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr           string
	Timezone       string
	AllowedOrigins []string
	SiteBaseURL    string
	StaticDir      string
	CookieSecure   bool

	StoreDriver       string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	AutoMigrate       bool

	MongoURI                     string
	MongoDatabase                string
	MongoTimeout                 time.Duration
	FailedNotificationCollection string

	Supabase SupabaseConfig
	JWT      JWTConfig

	SMTP             SMTPConfig
	NotifyAdminEmail string

	RateLimit RateLimitConfig

	LogLevel  string
	LogFormat string

	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string
}

// Load reads environment variables (and an optional env file named by
// CONFIG_FILE) and returns a fully populated Config.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
	}

	supabaseURL := strings.TrimRight(strings.TrimSpace(v.GetString("SUPABASE_URL")), "/")
	issuer := strings.TrimSpace(v.GetString("SUPABASE_JWT_ISSUER"))
	if issuer == "" && supabaseURL != "" {
		issuer = supabaseURL + "/auth/v1"
	}

	// Cookie を伴う CORS はサイト自身のオリジンだけを既定で許可する
	siteBaseURL := strings.TrimRight(strings.TrimSpace(v.GetString("SITE_BASE_URL")), "/")

	cfg := Config{
		Addr:           v.GetString("HTTP_ADDR"),
		Timezone:       v.GetString("TIMEZONE"),
		AllowedOrigins: parseList(v.GetString("API_ALLOWED_ORIGINS"), []string{siteBaseURL}),
		SiteBaseURL:    siteBaseURL,
		StaticDir:      strings.TrimSpace(v.GetString("STATIC_DIR")),
		CookieSecure:   v.GetBool("COOKIE_SECURE"),

		StoreDriver:       strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		DatabaseURL:       strings.TrimSpace(v.GetString("DATABASE_URL")),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		AutoMigrate:       v.GetBool("AUTO_MIGRATE"),

		MongoURI:                     strings.TrimSpace(v.GetString("MONGO_URI")),
		MongoDatabase:                v.GetString("MONGO_DB"),
		MongoTimeout:                 v.GetDuration("MONGO_CONNECT_TIMEOUT"),
		FailedNotificationCollection: v.GetString("FAILED_NOTIFICATION_COLLECTION"),

		Supabase: SupabaseConfig{
			URL:            supabaseURL,
			AnonKey:        strings.TrimSpace(v.GetString("SUPABASE_ANON_KEY")),
			ServiceRoleKey: strings.TrimSpace(v.GetString("SUPABASE_SERVICE_ROLE_KEY")),
			Timeout:        v.GetDuration("SUPABASE_TIMEOUT"),
		},
		JWT: JWTConfig{
			Issuer:   issuer,
			Audience: strings.TrimSpace(v.GetString("AUTH_JWT_AUDIENCE")),
			Secret:   []byte(strings.TrimSpace(v.GetString("SUPABASE_JWT_SECRET"))),
		},

		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(v.GetString("SMTP_HOST")),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     strings.TrimSpace(v.GetString("SMTP_FROM")),
		},
		NotifyAdminEmail: strings.TrimSpace(v.GetString("NOTIFY_ADMIN_EMAIL")),

		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		SeedAdminEmail:    strings.TrimSpace(v.GetString("SEED_ADMIN_EMAIL")),
		SeedAdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		SeedAdminName:     v.GetString("SEED_ADMIN_NAME"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("TIMEZONE", "Asia/Tokyo")
	v.SetDefault("SITE_BASE_URL", "http://localhost:3000")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DB_MAX_OPEN_CONNS", 1)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("MONGO_DB", "matching-site")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
	v.SetDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications")
	v.SetDefault("SUPABASE_TIMEOUT", "10s")
	v.SetDefault("AUTH_JWT_AUDIENCE", "authenticated")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SEED_ADMIN_NAME", "システム管理者")
}

func (c Config) validate() error {
	var errs []error
	if len(c.JWT.Secret) == 0 {
		errs = append(errs, errors.New("SUPABASE_JWT_SECRET must be configured"))
	}
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL must be configured"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.DBMaxOpenConns < 1 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be positive"))
	}
	if c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

// IdentityConfigured reports whether the hosted identity provider can be called.
func (c Config) IdentityConfigured() bool {
	return c.Supabase.URL != "" && c.Supabase.ServiceRoleKey != "" && c.Supabase.AnonKey != ""
}

func parseList(raw string, fallback []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
