package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if BUTACA_CONFIG is set
//  3. env (prefix BUTACA_)
//
// Context is accepted first to satisfy the project-wide convention; it is
// reserved for future use (e.g., remote providers) and is currently unused.
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BUTACA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BUTACA_ADDR, BUTACA_MOVIES_CSV, ...
	// Map env keys like BUTACA_MOVIES_CSV -> movies_csv (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BUTACA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "butaca_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MoviesCSV == "":
		return fmt.Errorf("%w: movies_csv must not be empty", ErrInvalidConfig)
	case c.DefaultCount <= 0:
		return fmt.Errorf("%w: default_count must be positive", ErrInvalidConfig)
	case c.MaxCount < c.DefaultCount:
		return fmt.Errorf("%w: max_count must be at least default_count", ErrInvalidConfig)
	case c.DefaultDiversifiedRatio < 0 || c.DefaultDiversifiedRatio > 1:
		return fmt.Errorf("%w: default_diversified_ratio must be within [0, 1]", ErrInvalidConfig)
	case c.SimilarityWeight <= 0 || c.QualityWeight <= 0:
		return fmt.Errorf("%w: scoring weights must be positive", ErrInvalidConfig)
	case c.Overfetch <= 0:
		return fmt.Errorf("%w: overfetch must be positive", ErrInvalidConfig)
	case c.BatchWorkers <= 0:
		return fmt.Errorf("%w: batch_workers must be positive", ErrInvalidConfig)
	}
	return nil
}
