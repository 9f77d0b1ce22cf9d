// Package config handles configuration for the server component,
// including defaults, environment variables, and command-line flags.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings for the typewriter server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - DatabaseDSN: postgres:// DSN selects the postgres backend,
//     anything else is treated as a sqlite file path.
//   - JWTSecret: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenTTL: bearer token lifetime.
//   - GoogleClientID / GoogleClientSecret / GoogleRedirectURL: Google OAuth
//     credentials; OAuth routes are disabled when the client id is empty.
//   - FrontendURL: base URL used in share links, reset links and OAuth redirects.
//   - DevMode: enables development shortcuts (reset link echoed in response).
//   - RateLimit / AuthRateLimit: requests per minute, overall and for /auth/.
type Config struct {
	Addr               string
	DatabaseDSN        string
	JWTSecret          string
	TokenTTL           time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendURL        string
	AllowedOrigins     []string
	RateLimit          int
	AuthRateLimit      int
	DevMode            bool
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = "typewriter.db"
	c.JWTSecret = "dev-secret-change-me"
	c.TokenTTL = 7 * 24 * time.Hour
	c.FrontendURL = "http://localhost:5173"
	c.AllowedOrigins = []string{"http://localhost:5173"}
	c.RateLimit = 300
	c.AuthRateLimit = 20
	c.DevMode = true
}

// UsePostgres reports whether DatabaseDSN points at a postgres server
func (c *Config) UsePostgres() bool {
	return strings.HasPrefix(c.DatabaseDSN, "postgres://") ||
		strings.HasPrefix(c.DatabaseDSN, "postgresql://")
}

// GoogleEnabled reports whether Google OAuth credentials are configured
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// parseEnv overlays Config fields from environment variables
func parseEnv(c *Config) {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString(&c.Addr, "ADDRESS")
	setString(&c.DatabaseDSN, "DATABASE_DSN")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.GoogleClientID, "GOOGLE_CLIENT_ID")
	setString(&c.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&c.GoogleRedirectURL, "GOOGLE_REDIRECT_URL")
	setString(&c.FrontendURL, "FRONTEND_URL")

	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitOrigins(v)
	}
	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.TokenTTL = d
		}
	}
	if v, ok := os.LookupEnv("RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit = n
		}
	}
	if v, ok := os.LookupEnv("AUTH_RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.AuthRateLimit = n
		}
	}
	if v, ok := os.LookupEnv("DEV_MODE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DevMode = b
		}
	}
}

// parseFlags overlays Config fields from command-line flags
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN (postgres:// or sqlite file path)
//	-s string   JWT HMAC secret key
//	-t duration bearer token lifetime (e.g., "168h")
//	-f string   frontend base URL
//	-dev        development mode
func parseFlags(c *Config, args []string) {
	fs := flag.NewFlagSet("typewriter-server", flag.ExitOnError)

	fs.StringVar(&c.Addr, "a", c.Addr, "address and port to run server")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "database DSN")
	fs.StringVar(&c.JWTSecret, "s", c.JWTSecret, "JWT secret key")
	fs.DurationVar(&c.TokenTTL, "t", c.TokenTTL, "bearer token lifetime")
	fs.StringVar(&c.FrontendURL, "f", c.FrontendURL, "frontend base URL")
	fs.BoolVar(&c.DevMode, "dev", c.DevMode, "development mode")

	origins := fs.String("o", "", "comma-separated list of allowed CORS origins")

	_ = fs.Parse(args)

	if *origins != "" {
		c.AllowedOrigins = splitOrigins(*origins)
	}
}

// splitOrigins разбирает comma-separated список origins
func splitOrigins(v string) []string {
	parts := strings.Split(v, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from environment variables and finally from command-line flags.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
