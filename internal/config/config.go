// Package config defines all configuration structures for the MolGen scoring
// engine.  No I/O or parsing logic lives here, only plain data types and
// validation.  Any validation failure is a ConfigurationError and must abort
// the run before the first batch is scored.
package config

import (
	"fmt"
	"time"
)

// TransformConfig selects and parameterises the monotonic mapping applied to
// a component's raw score.  When Enabled is false the raw value is passed
// through unchanged and the component must already produce values in [0,1].
type TransformConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Kind    string  `mapstructure:"kind"` // sigmoid | reverse_sigmoid | double_sigmoid | step | right_step | no_transformation
	Low     float64 `mapstructure:"low"`
	High    float64 `mapstructure:"high"`
	K       float64 `mapstructure:"k"`
	CoefDiv float64 `mapstructure:"coef_div"`
	CoefSI  float64 `mapstructure:"coef_si"`
	CoefSE  float64 `mapstructure:"coef_se"`
}

// ComponentConfig describes one scoring-function component.  Immutable after
// load; the scoring package turns it into a concrete evaluator at startup.
type ComponentConfig struct {
	// Type is the component kind (predictive_property, tanimoto_similarity,
	// matching_substructure, custom_alerts, num_rotatable_bonds,
	// num_hb_donors, tpsa, molecular_weight).
	Type string `mapstructure:"type"`

	// Name uniquely identifies the component within the run; it keys the
	// per-component columns of the export artifact.
	Name string `mapstructure:"name"`

	// Weight is the component's non-negative contribution weight.
	Weight float64 `mapstructure:"weight"`

	// Transform normalises the raw score into [0,1].
	Transform TransformConfig `mapstructure:"transform"`

	// Patterns lists substructure patterns for custom_alerts and
	// matching_substructure components.
	Patterns []string `mapstructure:"patterns"`

	// ModelPath points at the JSON model artifact for predictive_property
	// components.  A missing or corrupt artifact is fatal at startup.
	ModelPath string `mapstructure:"model_path"`

	// ReferenceSMILES lists the reference set for tanimoto_similarity
	// components.
	ReferenceSMILES []string `mapstructure:"reference_smiles"`
}

// ScoringConfig holds the composite scoring function settings.
type ScoringConfig struct {
	// CombinationRule is "custom_sum" (weighted arithmetic mean) or
	// "custom_product" (weighted geometric mean).  Fixed for the run.
	CombinationRule string `mapstructure:"combination_rule"`

	// Parallel enables concurrent component evaluation per batch.
	Parallel bool `mapstructure:"parallel"`

	// Components is the ordered list of scoring components.
	Components []ComponentConfig `mapstructure:"components"`
}

// DiversityFilterConfig holds the scaffold-bucket filter settings.
type DiversityFilterConfig struct {
	// Name selects the bucketing strategy: "scaffold" (topological
	// scaffold), "scaffold_similarity" (scaffold with near-duplicate
	// merging), "identical" (whole-structure signature), or "none".
	Name string `mapstructure:"name"`

	// NbMax is the admission cap per bucket; occupancy at or above NbMax
	// suppresses further members to score zero.
	NbMax int `mapstructure:"nbmax"`

	// MinScore is the admission threshold; structures scoring below it are
	// suppressed and never recorded.
	MinScore float64 `mapstructure:"minscore"`

	// MinSimilarity merges a new scaffold into the most similar existing
	// bucket when their scaffold-fingerprint similarity reaches this value.
	// Only used by the scaffold_similarity strategy.
	MinSimilarity float64 `mapstructure:"minsimilarity"`
}

// InceptionConfig holds the seed-memory settings.
type InceptionConfig struct {
	// MemorySize bounds the number of retained seed structures.  Zero
	// disables inception.
	MemorySize int `mapstructure:"memory_size"`

	// SampleSize is the number of seeds injected per generation epoch.
	SampleSize int `mapstructure:"sample_size"`

	// SMILES lists the seed structures inline.
	SMILES []string `mapstructure:"smiles"`

	// SMILESFile optionally points at a newline-delimited seed file,
	// appended to the inline list.
	SMILESFile string `mapstructure:"smiles_file"`
}

// WorkerConfig holds component-evaluation pool settings.
type WorkerConfig struct {
	// Concurrency bounds the number of component evaluations in flight.
	Concurrency int `mapstructure:"concurrency"`

	// ComponentTimeout bounds a single component's evaluation of one batch.
	// Zero disables the timeout.
	ComponentTimeout time.Duration `mapstructure:"component_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// RunConfig holds run-level identity and output settings.
type RunConfig struct {
	// Label identifies the run in logs and the export artifact.  When empty
	// a UUID-derived label is generated at startup.
	Label string `mapstructure:"label"`

	// OutputDir receives the scaffold ledger CSV and run summary.
	OutputDir string `mapstructure:"output_dir"`

	// Seed initialises the sampling RNG.  Zero means seed from the clock.
	Seed int64 `mapstructure:"seed"`
}

// Config is the root configuration for one scoring run.
type Config struct {
	Scoring   ScoringConfig         `mapstructure:"scoring"`
	Diversity DiversityFilterConfig `mapstructure:"diversity_filter"`
	Inception InceptionConfig       `mapstructure:"inception"`
	Worker    WorkerConfig          `mapstructure:"worker"`
	Log       LogConfig             `mapstructure:"log"`
	Run       RunConfig             `mapstructure:"run"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers must treat any error as
// fatal and refuse to start the run.
func (c *Config) Validate() error {
	// Scoring
	switch c.Scoring.CombinationRule {
	case "custom_sum", "custom_product":
	default:
		return fmt.Errorf("config: scoring.combination_rule %q is invalid; expected custom_sum|custom_product", c.Scoring.CombinationRule)
	}
	if len(c.Scoring.Components) == 0 {
		return fmt.Errorf("config: scoring.components must contain at least one component")
	}
	names := make(map[string]bool, len(c.Scoring.Components))
	for i, comp := range c.Scoring.Components {
		if comp.Type == "" {
			return fmt.Errorf("config: scoring.components[%d].type is required", i)
		}
		if comp.Name == "" {
			return fmt.Errorf("config: scoring.components[%d].name is required", i)
		}
		if names[comp.Name] {
			return fmt.Errorf("config: scoring.components[%d].name %q is duplicated", i, comp.Name)
		}
		names[comp.Name] = true
		if comp.Weight < 0 {
			return fmt.Errorf("config: scoring.components[%d].weight must be >= 0, got %v", i, comp.Weight)
		}
	}

	// Diversity filter
	switch c.Diversity.Name {
	case "scaffold", "scaffold_similarity", "identical", "none":
	default:
		return fmt.Errorf("config: diversity_filter.name %q is invalid; expected scaffold|scaffold_similarity|identical|none", c.Diversity.Name)
	}
	if c.Diversity.NbMax < 1 {
		return fmt.Errorf("config: diversity_filter.nbmax must be >= 1, got %d", c.Diversity.NbMax)
	}
	if c.Diversity.MinScore < 0 || c.Diversity.MinScore > 1 {
		return fmt.Errorf("config: diversity_filter.minscore %v is out of range [0, 1]", c.Diversity.MinScore)
	}
	if c.Diversity.MinSimilarity < 0 || c.Diversity.MinSimilarity > 1 {
		return fmt.Errorf("config: diversity_filter.minsimilarity %v is out of range [0, 1]", c.Diversity.MinSimilarity)
	}

	// Inception
	if c.Inception.MemorySize < 0 {
		return fmt.Errorf("config: inception.memory_size must be >= 0, got %d", c.Inception.MemorySize)
	}
	if c.Inception.SampleSize < 0 {
		return fmt.Errorf("config: inception.sample_size must be >= 0, got %d", c.Inception.SampleSize)
	}

	// Worker
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be >= 1, got %d", c.Worker.Concurrency)
	}
	if c.Worker.ComponentTimeout < 0 {
		return fmt.Errorf("config: worker.component_timeout must be >= 0, got %v", c.Worker.ComponentTimeout)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
