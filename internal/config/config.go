package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/r1cA18/make-slide-script/internal/domain"
	"github.com/r1cA18/make-slide-script/internal/script"
)

type Config struct {
	Port           string
	BaseURL        string
	ShareSecret    string
	ShareTTL       time.Duration
	MaxUploadBytes int64
	DataDir        string
	StoreBackend   string
	FetchTimeout   time.Duration
	SettingsFile   string
	PDFFontPath    string

	// Loaded from SettingsFile when set.
	Defaults domain.Settings
	Patterns script.PatternSpec
}

func LoadConfig() (Config, error) {
	cfg := Config{}

	cfg.Port = envOrDefault("PORT", "8080")
	cfg.BaseURL = envOrDefault("BASE_URL", fmt.Sprintf("http://localhost:%s", cfg.Port))
	cfg.ShareSecret = envOrDefault("SHARE_SECRET", "change-me")
	cfg.DataDir = envOrDefault("DATA_DIR", "data")
	cfg.StoreBackend = envOrDefault("STORE_BACKEND", "memory")
	cfg.SettingsFile = envOrDefault("SETTINGS_FILE", "")
	cfg.PDFFontPath = envOrDefault("PDF_FONT_PATH", "")

	shareTTLSeconds, err := parseIntEnv("SHARE_TTL_SECONDS", 86400)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHARE_TTL_SECONDS: %w", err)
	}
	cfg.ShareTTL = time.Duration(shareTTLSeconds) * time.Second

	maxUploadMB, err := parseIntEnv("MAX_UPLOAD_MB", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_UPLOAD_MB: %w", err)
	}
	cfg.MaxUploadBytes = maxUploadMB * 1024 * 1024

	fetchTimeoutSeconds, err := parseIntEnv("FETCH_TIMEOUT_SECONDS", 60)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_TIMEOUT_SECONDS: %w", err)
	}
	cfg.FetchTimeout = time.Duration(fetchTimeoutSeconds) * time.Second

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = absDataDir

	cfg.Defaults = domain.DefaultSettings()
	cfg.Patterns = script.DefaultPatternSpec()
	if err := cfg.ApplySettingsFile(cfg.SettingsFile); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplySettingsFile overlays project defaults and extraction patterns from
// path onto the config. An empty path only validates the current patterns.
func (c *Config) ApplySettingsFile(path string) error {
	if path != "" {
		file, err := LoadSettingsFile(path)
		if err != nil {
			return err
		}
		defaults, err := file.Defaults.Merge(c.Defaults).Normalize()
		if err != nil {
			return fmt.Errorf("settings file defaults: %w", err)
		}
		c.SettingsFile = path
		c.Defaults = defaults
		c.Patterns = file.Patterns.overlay(c.Patterns)
	}

	if _, err := c.Patterns.Compile(); err != nil {
		return fmt.Errorf("settings file patterns: %w", err)
	}
	return nil
}

// CompilePatterns returns the configured extraction table.
func (c Config) CompilePatterns() (*script.Patterns, error) {
	return c.Patterns.Compile()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseIntEnv(key string, fallback int64) (int64, error) {
	value := envOrDefault(key, "")
	if value == "" {
		return fallback, nil
	}

	num, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}
