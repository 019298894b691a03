// Package config provides configuration loading, defaults, and validation
// for the MolGen scoring engine.
package config

import "runtime"

// Default value constants.  Numeric thresholds follow the values the
// reference reinforcement-learning setup ships with.
const (
	DefaultCombinationRule = "custom_sum"

	DefaultDiversityName  = "scaffold"
	DefaultNbMax          = 25
	DefaultMinScore       = 0.4
	DefaultMinSimilarity  = 0.4
	DefaultMemorySize     = 100
	DefaultSampleSize     = 10

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultOutputDir = "results"
)

// ApplyDefaults fills unset fields in cfg with the engine default.  It must
// be called after unmarshalling raw config data and before Validate() so
// that optional-but-defaulted fields are never seen as missing.  Fields
// already set by the caller are left unchanged so explicit configuration
// always wins.  Fields whose zero value is meaningful (the diversity
// thresholds) are defaulted at load time instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// Scoring
	if cfg.Scoring.CombinationRule == "" {
		cfg.Scoring.CombinationRule = DefaultCombinationRule
	}
	for i := range cfg.Scoring.Components {
		t := &cfg.Scoring.Components[i].Transform
		if t.Kind == "" {
			t.Kind = "no_transformation"
		}
	}

	// Diversity filter.  The numeric thresholds (nbmax, minscore,
	// minsimilarity) are defaulted by the loader via viper, not here:
	// an explicit zero must survive, and a zero-value struct field cannot
	// be told apart from an unset one.
	if cfg.Diversity.Name == "" {
		cfg.Diversity.Name = DefaultDiversityName
	}

	// Inception: MemorySize 0 legitimately disables inception, so defaults
	// apply only when the whole section is untouched.
	if cfg.Inception.MemorySize == 0 && cfg.Inception.SampleSize == 0 &&
		len(cfg.Inception.SMILES) == 0 && cfg.Inception.SMILESFile == "" {
		cfg.Inception.MemorySize = DefaultMemorySize
		cfg.Inception.SampleSize = DefaultSampleSize
	}

	// Worker
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = runtime.NumCPU()
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// Run
	if cfg.Run.OutputDir == "" {
		cfg.Run.OutputDir = DefaultOutputDir
	}
}
