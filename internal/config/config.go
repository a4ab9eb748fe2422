package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cookie acquisition modes for the feed session credential.
const (
	CookieModeLive   = "live"
	CookieModeStatic = "static"
)

// Config holds the application configuration loaded from the environment and
// an optional .env file.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BotToken  string `mapstructure:"bot_token"`
	ChannelID string `mapstructure:"channel_id"`

	// PollInterval is both the schedule period and the recency-window width.
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	FeedsFile string `mapstructure:"feeds_file"`

	CookieMode   string `mapstructure:"cookie_mode"`
	StaticCookie string `mapstructure:"static_cookie"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and an optional .env file.
// Missing bot credentials abort startup; everything else has a default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("app_name", "xueqiu-relay")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("bot_token", "")
	v.SetDefault("channel_id", "")
	v.SetDefault("poll_interval", 120) // seconds
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("feeds_file", "")
	v.SetDefault("cookie_mode", CookieModeLive)
	v.SetDefault("static_cookie", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BotToken = strings.TrimSpace(cfg.BotToken)
	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}

	cfg.ChannelID = strings.TrimSpace(cfg.ChannelID)
	if cfg.ChannelID == "" {
		return nil, errors.New("CHANNEL_ID is required")
	}
	// The Bot API addresses public channels by @username.
	if !strings.HasPrefix(cfg.ChannelID, "@") {
		cfg.ChannelID = "@" + cfg.ChannelID
	}

	if cfg.PollIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	cfg.CookieMode = strings.ToLower(strings.TrimSpace(cfg.CookieMode))
	switch cfg.CookieMode {
	case CookieModeLive:
	case CookieModeStatic:
		if strings.TrimSpace(cfg.StaticCookie) == "" {
			return nil, errors.New("static_cookie is required when cookie_mode is static")
		}
	default:
		return nil, fmt.Errorf("unsupported cookie_mode %q", cfg.CookieMode)
	}

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
