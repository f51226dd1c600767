package config

import (
	"crypto/rand"
	"encoding/base64"
	"io/fs"
	"log/slog"
	"strconv"
	"time"

	"github.com/andrewindechemain/modern-man/internal/catalog"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultPort = "8585"

type Config struct {
	Port        string `envconfig:"PORT" default:"8585"`
	Env         string `envconfig:"APP_ENV" default:"development"`
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBPath      string `envconfig:"DB_PATH" default:"./modernman.db"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	Redis    catalog.RedisConfig `ignored:"true"`
	CacheTTL time.Duration       `envconfig:"CACHE_TTL" default:"1m"`

	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	RotateInterval  time.Duration `envconfig:"ROTATE_INTERVAL" default:"5s"`
	FetchTimeout    time.Duration `envconfig:"FETCH_TIMEOUT" default:"5s"`
	RenderBudget    time.Duration `envconfig:"RENDER_BUDGET" default:"150ms"`
	SuggestionLimit int           `envconfig:"SUGGESTION_LIMIT" default:"8"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"10s"`

	CookieDomain string `envconfig:"COOKIE_DOMAIN"`
	CookieSecure bool   `envconfig:"COOKIE_SECURE" default:"false"`

	RawCSRFKey    string `envconfig:"CSRF_KEY"`
	RawSessionKey string `envconfig:"SESSION_KEY"`
	CSRFKey       []byte `ignored:"true"`
	SessionKey    []byte `ignored:"true"`
}

// Production reports whether APP_ENV is "production".
func (c *Config) Production() bool {
	return c.Env == "production"
}

// DSN is the data source for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Could not load .env file", "error", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, errors.Wrap(err, "process env")
	}
	if err := envconfig.Process("", &cfg.Redis); err != nil {
		return nil, errors.Wrap(err, "process redis env")
	}

	cfg.CSRFKey = loadKey("CSRF_KEY", cfg.RawCSRFKey)
	cfg.SessionKey = loadKey("SESSION_KEY", cfg.RawSessionKey)

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", cfg.Port)
		cfg.Port = defaultPort
	}

	return cfg, nil
}

// loadKey decodes a base64 key of at least 32 bytes. Anything else gets a
// random key so development still works; sessions and tokens will not
// survive a restart.
func loadKey(name, raw string) []byte {
	if raw == "" {
		slog.Warn(name + " environment variable not set. Generating a random key for development. This key will change on each restart. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallback := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		padded := make([]byte, n)
		copy(padded, fallback)
		return padded
	}
	return b
}

