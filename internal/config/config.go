package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	DatabaseURL string
	RedisURL    string

	// Ordered rotation list; position 0 signs, every position verifies.
	SessionSecrets    string
	SessionCookieName string
	SessionTTL        time.Duration

	RootDomain     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite string

	StaticAssetPrefixes []string
	AuthRoutePrefixes   []string

	LoginRateLimitPerMin int
	LoginAttemptWindow   time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionSecrets:       os.Getenv("SESSION_SECRETS"),
		SessionCookieName:    getEnv("SESSION_COOKIE_NAME", "edge_session"),
		RootDomain:           os.Getenv("ROOT_DOMAIN"),
		CookieDomain:         os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:         getEnvBool("COOKIE_SECURE", true),
		CookieSameSite:       strings.ToLower(getEnv("COOKIE_SAMESITE", "lax")),
		StaticAssetPrefixes:  splitCSV(getEnv("STATIC_ASSET_PREFIXES", "/_next,/favicon.ico,/images,/public")),
		AuthRoutePrefixes:    splitCSV(getEnv("AUTH_ROUTE_PREFIXES", "/login,/signup,/forgot-password,/reset-password,/verify-email")),
		LoginRateLimitPerMin: getEnvInt("LOGIN_RATE_LIMIT_PER_MIN", 10),
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = sessionTTL

	attemptWindow, err := time.ParseDuration(getEnv("LOGIN_ATTEMPT_WINDOW", "15m"))
	if err != nil {
		return nil, fmt.Errorf("parse LOGIN_ATTEMPT_WINDOW: %w", err)
	}
	cfg.LoginAttemptWindow = attemptWindow

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if !hasNonEmptyEntry(c.SessionSecrets) {
		errs = append(errs, "SESSION_SECRETS must contain at least one non-empty secret")
	}
	if c.RootDomain == "" {
		errs = append(errs, "ROOT_DOMAIN is required")
	}
	if c.SessionCookieName == "" {
		errs = append(errs, "SESSION_COOKIE_NAME must not be empty")
	}
	if c.SessionTTL <= 0 || c.SessionTTL > (90*24*time.Hour) {
		errs = append(errs, "SESSION_TTL must be between 1s and 90d")
	}
	if c.LoginRateLimitPerMin <= 0 {
		errs = append(errs, "LOGIN_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.LoginAttemptWindow <= 0 {
		errs = append(errs, "LOGIN_ATTEMPT_WINDOW must be > 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SharedCookieDomain is set only in production: local subdomain cookie
// scoping differs per browser, so development uses a host-only cookie.
func (c *Config) SharedCookieDomain() string {
	if !c.IsProduction() {
		return ""
	}
	if c.CookieDomain != "" {
		return c.CookieDomain
	}
	return "." + c.RootDomain
}

func (c *Config) Scheme() string {
	if c.IsProduction() {
		return "https"
	}
	return "http"
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}

func hasNonEmptyEntry(csv string) bool {
	return len(splitCSV(csv)) > 0
}
