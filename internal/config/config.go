package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/postboard/internal/logging"
	"github.com/five82/postboard/internal/placeholder"
	"github.com/five82/postboard/internal/query"
	"github.com/five82/postboard/internal/session"
)

// Config holds the settings postboard reads from config.toml.
type Config struct {
	APIBase        string
	RequestTimeout time.Duration
	RateLimit      float64 // requests per second, 0 disables
	WriteStrategy  session.WriteStrategy
	PageSize       int
	RefreshEvery   time.Duration // 0 disables the periodic re-fetch
	LogPath        string
	LogLevel       string
	MetricsAddr    string
}

const (
	defaultConfigPath     = "~/.config/postboard/config.toml"
	defaultLogPath        = "~/.local/share/postboard/postboard.log"
	defaultRequestTimeout = 10 * time.Second
	defaultRateLimit      = 5
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:        placeholder.DefaultBaseURL,
		RequestTimeout: defaultRequestTimeout,
		RateLimit:      defaultRateLimit,
		WriteStrategy:  session.ApplyEcho,
		PageSize:       query.DefaultPageSize,
		LogPath:        mustExpand(defaultLogPath),
		LogLevel:       defaultLogLevel,
	}
}

// DefaultPath returns the expanded location Load reads when given "".
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

type rawConfig struct {
	APIBase        string `toml:"api_base"`
	RequestTimeout string `toml:"request_timeout"`
	RateLimit      any    `toml:"rate_limit"`
	WriteStrategy  string `toml:"write_strategy"`
	PageSize       int    `toml:"page_size"`
	RefreshEvery   string `toml:"refresh_every"`
	LogPath        string `toml:"log_path"`
	LogLevel       string `toml:"log_level"`
	MetricsAddr    string `toml:"metrics_addr"`
}

// Load locates and parses the postboard config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := raw.apply(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (raw rawConfig) apply(cfg *Config) error {
	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}

	timeout, err := parseDuration("request_timeout", raw.RequestTimeout)
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout
	}

	switch v := raw.RateLimit.(type) {
	case nil:
	case int64:
		cfg.RateLimit = float64(v)
	case float64:
		cfg.RateLimit = v
	default:
		return fmt.Errorf("rate_limit: want a number, got %T", raw.RateLimit)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate_limit: must not be negative")
	}

	strategy, err := session.ParseWriteStrategy(raw.WriteStrategy)
	if err != nil {
		return fmt.Errorf("write_strategy: %w", err)
	}
	cfg.WriteStrategy = strategy

	switch {
	case raw.PageSize < 0:
		return fmt.Errorf("page_size: must not be negative")
	case raw.PageSize > 0:
		cfg.PageSize = raw.PageSize
	}

	refresh, err := parseDuration("refresh_every", raw.RefreshEvery)
	if err != nil {
		return err
	}
	cfg.RefreshEvery = refresh

	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = v
	}
	if cfg.LogPath != "stderr" && cfg.LogPath != "stdout" {
		cfg.LogPath = mustExpand(cfg.LogPath)
	}

	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if _, err := logging.ParseLevel(v); err != nil {
			return err
		}
		cfg.LogLevel = strings.ToLower(v)
	}

	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	return nil
}

func parseDuration(field, raw string) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", field)
	}
	return d, nil
}

// PrefsPath returns the preferences file stored next to the config file.
func PrefsPath(configPath string) string {
	resolved, err := resolvePath(configPath)
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(resolved), "prefs.toml")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
