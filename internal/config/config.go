// Package config resolves foamwatch settings from defaults, a TOML file,
// FOAMWATCH_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the fully resolved runtime configuration.
type Config struct {
	LogPath      string
	Fields       []string
	Window       int
	ResetEvery   int
	PollInterval time.Duration
	RetryMissing time.Duration
	RetryEmpty   time.Duration
	PNGPath      string
	AppLog       string
	LogLevel     string
	Watch        bool
}

// Keys shared with flag bindings.
const (
	KeyLogPath      = "log_path"
	KeyFields       = "fields"
	KeyWindow       = "window"
	KeyResetEvery   = "reset_every"
	KeyPollInterval = "poll_interval"
	KeyRetryMissing = "retry_missing"
	KeyRetryEmpty   = "retry_empty"
	KeyPNGPath      = "png_path"
	KeyAppLog       = "app_log"
	KeyLogLevel     = "log_level"
	KeyWatch        = "watch"
)

const (
	defaultConfigPath   = "~/.config/foamwatch/config.toml"
	defaultLogPath      = "log.foam"
	defaultWindow       = 500
	defaultResetEvery   = 100
	defaultPollInterval = 20 * time.Second
	defaultRetryMissing = 2 * time.Second
	defaultRetryEmpty   = 10 * time.Second
	defaultAppLog       = "~/.local/state/foamwatch/foamwatch.log"
	defaultLogLevel     = "info"
	envPrefix           = "FOAMWATCH"
)

var defaultFields = []string{"Ux", "Uy", "Uz", "p"}

// SetDefaults registers default values and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogPath, defaultLogPath)
	v.SetDefault(KeyFields, defaultFields)
	v.SetDefault(KeyWindow, defaultWindow)
	v.SetDefault(KeyResetEvery, defaultResetEvery)
	v.SetDefault(KeyPollInterval, defaultPollInterval)
	v.SetDefault(KeyRetryMissing, defaultRetryMissing)
	v.SetDefault(KeyRetryEmpty, defaultRetryEmpty)
	v.SetDefault(KeyPNGPath, "")
	v.SetDefault(KeyAppLog, defaultAppLog)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyWatch, true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads the TOML file at path (or the default location) into v and
// returns the validated configuration. A missing file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	if _, err := os.Stat(resolved); err == nil {
		v.SetConfigFile(resolved)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat config: %w", err)
	}

	cfg := Config{
		LogPath:      strings.TrimSpace(v.GetString(KeyLogPath)),
		Fields:       splitFields(v.Get(KeyFields)),
		Window:       v.GetInt(KeyWindow),
		ResetEvery:   v.GetInt(KeyResetEvery),
		PollInterval: v.GetDuration(KeyPollInterval),
		RetryMissing: v.GetDuration(KeyRetryMissing),
		RetryEmpty:   v.GetDuration(KeyRetryEmpty),
		PNGPath:      strings.TrimSpace(v.GetString(KeyPNGPath)),
		AppLog:       strings.TrimSpace(v.GetString(KeyAppLog)),
		LogLevel:     strings.TrimSpace(v.GetString(KeyLogLevel)),
		Watch:        v.GetBool(KeyWatch),
	}

	if cfg.LogPath != "" {
		cfg.LogPath = mustExpand(cfg.LogPath)
	}
	if cfg.PNGPath != "" {
		cfg.PNGPath = mustExpand(cfg.PNGPath)
	}
	if cfg.AppLog != "" {
		cfg.AppLog = mustExpand(cfg.AppLog)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants the driver relies on.
func (c Config) Validate() error {
	switch {
	case c.LogPath == "":
		return fmt.Errorf("%w: log path is empty", ErrInvalid)
	case len(c.Fields) == 0:
		return fmt.Errorf("%w: no fields to monitor", ErrInvalid)
	case c.Window < 0:
		return fmt.Errorf("%w: window must be >= 0, got %d", ErrInvalid, c.Window)
	case c.ResetEvery < 0:
		return fmt.Errorf("%w: reset_every must be >= 0, got %d", ErrInvalid, c.ResetEvery)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalid)
	case c.RetryMissing <= 0:
		return fmt.Errorf("%w: retry_missing must be positive", ErrInvalid)
	case c.RetryEmpty <= 0:
		return fmt.Errorf("%w: retry_empty must be positive", ErrInvalid)
	}
	return nil
}

// splitFields accepts a TOML array or a comma/space separated string.
func splitFields(raw any) []string {
	var parts []string
	switch value := raw.(type) {
	case string:
		parts = strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
	case []string:
		parts = value
	case []any:
		for _, item := range value {
			parts = append(parts, fmt.Sprint(item))
		}
	}

	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
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
