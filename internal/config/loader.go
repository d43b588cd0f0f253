package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/redpacket/internal/domain/money"
)

const (
	envPrefix  = "REDPACKET_"
	envConfig  = "REDPACKET_CONFIG"
	dotEnvFile = ".env"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if REDPACKET_CONFIG is set
//  3. env (prefix REDPACKET_), after loading ./.env if present
func Load(ctx context.Context) (*Config, error) {
	loadDotEnv()
	return load(ctx, os.Getenv(envConfig))
}

// LoadFrom is Load with an explicit YAML path; an empty path skips the file layer.
func LoadFrom(ctx context.Context, path string) (*Config, error) {
	loadDotEnv()
	return load(ctx, path)
}

func load(ctx context.Context, path string) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	base := New()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// REDPACKET_HISTORY_FILE -> history_file (flat keys, underscores kept)
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if strings.TrimSpace(c.HistoryFile) == "" {
		return fmt.Errorf("%w: history_file must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(strings.TrimSpace(c.HistoryFormat)) {
	case "", "json", "yaml", "yml":
	default:
		return fmt.Errorf("%w: unknown history_format %q", ErrInvalidConfig, c.HistoryFormat)
	}
	if c.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max_participants must be positive, got %d", ErrInvalidConfig, c.MaxParticipants)
	}
	if _, err := c.MinShareAmount(); err != nil {
		return err
	}
	return nil
}

// MinShareAmount parses MinShare; it must be positive.
func (c *Config) MinShareAmount() (money.Amount, error) {
	a, err := money.Parse(c.MinShare)
	if err != nil {
		return money.Zero, fmt.Errorf("%w: min_share: %w", ErrInvalidConfig, err)
	}
	if !a.IsPositive() {
		return money.Zero, fmt.Errorf("%w: min_share must be positive", ErrInvalidConfig)
	}
	return a, nil
}

// loadDotEnv exports ./.env into the process environment without
// overriding variables that are already set.
func loadDotEnv() {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("ignoring malformed " + dotEnvFile + ": " + err.Error() + "\n")
	}
}
