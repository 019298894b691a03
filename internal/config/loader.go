package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "MOLSCORE"

// newViper builds a pre-configured Viper instance with the engine's standard
// settings: YAML file type, MOLSCORE_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like
// "diversity_filter.nbmax" resolve to "MOLSCORE_DIVERSITY_FILTER_NBMAX".
//
// The numeric diversity thresholds are defaulted here rather than in
// ApplyDefaults: zero is a meaningful value for minscore and minsimilarity
// (no threshold), so only genuinely unset keys may fall back to the
// defaults.  An explicit zero in the file or environment is preserved.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("diversity_filter.nbmax", DefaultNbMax)
	v.SetDefault("diversity_filter.minscore", DefaultMinScore)
	v.SetDefault("diversity_filter.minsimilarity", DefaultMinSimilarity)
	return v
}

// Load reads the YAML file at configPath, merges any MOLSCORE_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  It returns a fully-populated *Config or a descriptive error that
// the caller must treat as fatal.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from MOLSCORE_* environment
// variables, with no config file required.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  Only the log level
// is safe to apply mid-run; scoring, diversity, and inception settings are
// fixed for the lifetime of a run and callers must ignore changes to them.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; errors are ignored here, callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}
