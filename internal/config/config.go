package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/yourorg/branch-search/internal/env"
)

const (
	BackendSheets   = "sheets"
	BackendList     = "list"
	BackendDatabase = "database"
)

// DefaultListEndpoint is the branch directory list used when
// BRANCH_LIST_ENDPOINT is not set.
const DefaultListEndpoint = "https://contoso.sharepoint.com/sites/operations/_api/web/lists/getbytitle('Branches')/items"

type Config struct {
	Port    int    `validate:"min=1,max=65535"`
	Backend string `validate:"required,oneof=sheets list database"`

	// SheetID is the single identifier the host configures for the feed.
	SheetID      string `validate:"required_if=Backend sheets"`
	ListEndpoint string `validate:"omitempty,url"`
	ListToken    string
	DatabaseDSN  string `validate:"required_if=Backend database"`

	RedisAddr     string
	RedisPassword string
	RedisDB       int           `validate:"min=0"`
	CacheTTL      time.Duration `validate:"min=0"`
	StaleAfter    time.Duration `validate:"min=0"`

	RequestTimeout     time.Duration `validate:"gt=0"`
	UpstreamPerSecond  int           `validate:"gt=0"`
	RateLimitPerMinute int           `validate:"gt=0"`
	SessionIdleTTL     time.Duration `validate:"gt=0"`
	SecureCookie       bool
	WidgetTitle        string

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=console json"`
}

// Load reads an optional .env file and then BRANCH_* variables.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func FromEnv() Config {
	return Config{
		Port:               env.GetInt("PORT", 4002),
		Backend:            env.Get("BRANCH_BACKEND", BackendSheets),
		SheetID:            env.Get("BRANCH_SHEET_ID", ""),
		ListEndpoint:       env.Get("BRANCH_LIST_ENDPOINT", DefaultListEndpoint),
		ListToken:          env.Get("BRANCH_LIST_TOKEN", ""),
		DatabaseDSN:        env.Get("BRANCH_DATABASE_DSN", ""),
		RedisAddr:          env.Get("REDIS_ADDR", ""),
		RedisPassword:      env.Get("REDIS_PASSWORD", ""),
		RedisDB:            env.GetInt("REDIS_DB", 0),
		CacheTTL:           env.GetDuration("BRANCH_CACHE_TTL", time.Hour),
		StaleAfter:         env.GetDuration("BRANCH_CACHE_STALE_AFTER", time.Minute),
		RequestTimeout:     env.GetDuration("BRANCH_REQUEST_TIMEOUT", 6*time.Second),
		UpstreamPerSecond:  env.GetInt("BRANCH_UPSTREAM_RPS", 5),
		RateLimitPerMinute: env.GetInt("BRANCH_RATE_LIMIT", 300),
		SessionIdleTTL:     env.GetDuration("BRANCH_SESSION_IDLE_TTL", 30*time.Minute),
		SecureCookie:       env.GetBool("BRANCH_SECURE_COOKIE", false),
		WidgetTitle:        env.Get("BRANCH_WIDGET_TITLE", "Branch Search"),
		LogLevel:           env.Get("LOG_LEVEL", "info"),
		LogFormat:          env.Get("LOG_FORMAT", "console"),
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CacheEnabled reports whether upstream payloads are cached in redis.
func (c Config) CacheEnabled() bool { return c.RedisAddr != "" && c.CacheTTL > 0 }
