package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "BRAINMATCH_"
	envFileVar = envPrefix + "CONFIG"
	// envNestDelim maps BRAINMATCH_LABELS__SEPARATOR to labels.separator.
	envNestDelim = "__"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (JSON for .json, YAML otherwise): path, else BRAINMATCH_CONFIG
//  3. env (prefix BRAINMATCH_, "__" descends into sections)
func Load(_ context.Context, path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envFileVar)
	}
	if path != "" {
		var parser koanf.Parser = yaml.Parser()
		if strings.EqualFold(filepath.Ext(path), ".json") {
			parser = json.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, envNestDelim, ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The file path variable is not a config key.
	k.Delete("config")

	cfg := New()
	dc := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:           cfg,
		WeaklyTypedInput: true,
		// Lists from a file replace the defaults instead of overlaying them.
		ZeroFields: true,
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf", DecoderConfig: dc}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the cross references between label
// categories.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !slices.Contains(c.Labels.Categories, c.Labels.GitSkills) {
		return fmt.Errorf("%w: git skills category %q is not a label category", ErrInvalidConfig, c.Labels.GitSkills)
	}
	for _, m := range c.Labels.Matched {
		if !slices.Contains(c.Labels.Categories, m) {
			return fmt.Errorf("%w: matched category %q is not a label category", ErrInvalidConfig, m)
		}
		if m == c.Labels.GitSkills {
			return fmt.Errorf("%w: git skills category %q cannot be matched as a list", ErrInvalidConfig, m)
		}
	}
	return nil
}
