package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a minimal configuration that passes Validate.
func validConfig() *Config {
	cfg := &Config{
		Scoring: ScoringConfig{
			CombinationRule: "custom_sum",
			Components: []ComponentConfig{
				{Type: "tpsa", Name: "tpsa", Weight: 1, Transform: TransformConfig{Enabled: true, Kind: "step", Low: 0, High: 140}},
			},
		},
		Diversity: DiversityFilterConfig{NbMax: DefaultNbMax, MinScore: DefaultMinScore, MinSimilarity: DefaultMinSimilarity},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "unknown combination rule",
			mutate:  func(c *Config) { c.Scoring.CombinationRule = "harmonic" },
			wantMsg: "combination_rule",
		},
		{
			name:    "no components",
			mutate:  func(c *Config) { c.Scoring.Components = nil },
			wantMsg: "at least one component",
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.Scoring.Components[0].Weight = -1 },
			wantMsg: "weight",
		},
		{
			name: "duplicate component name",
			mutate: func(c *Config) {
				c.Scoring.Components = append(c.Scoring.Components, c.Scoring.Components[0])
			},
			wantMsg: "duplicated",
		},
		{
			name:    "missing component name",
			mutate:  func(c *Config) { c.Scoring.Components[0].Name = "" },
			wantMsg: "name is required",
		},
		{
			name:    "nbmax below one",
			mutate:  func(c *Config) { c.Diversity.NbMax = 0 },
			wantMsg: "nbmax",
		},
		{
			name:    "minscore out of range",
			mutate:  func(c *Config) { c.Diversity.MinScore = 1.5 },
			wantMsg: "minscore",
		},
		{
			name:    "minsimilarity out of range",
			mutate:  func(c *Config) { c.Diversity.MinSimilarity = -0.1 },
			wantMsg: "minsimilarity",
		},
		{
			name:    "unknown diversity strategy",
			mutate:  func(c *Config) { c.Diversity.Name = "bloom" },
			wantMsg: "diversity_filter.name",
		},
		{
			name:    "negative memory size",
			mutate:  func(c *Config) { c.Inception.MemorySize = -1 },
			wantMsg: "memory_size",
		},
		{
			name:    "negative sample size",
			mutate:  func(c *Config) { c.Inception.SampleSize = -5 },
			wantMsg: "sample_size",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Worker.Concurrency = 0 },
			wantMsg: "concurrency",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantMsg: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "custom_sum", cfg.Scoring.CombinationRule)
	assert.Equal(t, "scaffold", cfg.Diversity.Name)
	// Numeric diversity thresholds are loader (viper) defaults: zero is a
	// meaningful configured value and must not be rewritten here.
	assert.Zero(t, cfg.Diversity.NbMax)
	assert.Zero(t, cfg.Diversity.MinScore)
	assert.Zero(t, cfg.Diversity.MinSimilarity)
	assert.Equal(t, 100, cfg.Inception.MemorySize)
	assert.Equal(t, 10, cfg.Inception.SampleSize)
	assert.GreaterOrEqual(t, cfg.Worker.Concurrency, 1)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "results", cfg.Run.OutputDir)
}

func TestApplyDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := &Config{
		Diversity: DiversityFilterConfig{NbMax: 3, MinScore: 0.7},
		Inception: InceptionConfig{MemorySize: 20, SampleSize: 5},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, 3, cfg.Diversity.NbMax)
	assert.Equal(t, 0.7, cfg.Diversity.MinScore)
	assert.Equal(t, 20, cfg.Inception.MemorySize)
	assert.Equal(t, 5, cfg.Inception.SampleSize)
}

func TestApplyDefaults_TransformKind(t *testing.T) {
	cfg := &Config{
		Scoring: ScoringConfig{
			Components: []ComponentConfig{{Type: "tpsa", Name: "t", Weight: 1}},
		},
	}
	ApplyDefaults(cfg)
	assert.Equal(t, "no_transformation", cfg.Scoring.Components[0].Transform.Kind)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
