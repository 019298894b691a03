package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
scoring:
  combination_rule: custom_product
  parallel: true
  components:
    - type: predictive_property
      name: activity
      weight: 7
      model_path: testdata/activity_model.json
      transform:
        enabled: true
        kind: sigmoid
        low: 0.2
        high: 0.8
        k: 0.25
    - type: num_rotatable_bonds
      name: rotb
      weight: 1
      transform:
        enabled: true
        kind: step
        low: 0
        high: 10
diversity_filter:
  name: scaffold_similarity
  nbmax: 25
  minscore: 0.4
  minsimilarity: 0.35
inception:
  memory_size: 20
  sample_size: 5
  smiles:
    - "c1ccccc1CC(=O)O"
worker:
  concurrency: 4
  component_timeout: 30s
run:
  label: demo-run
  output_dir: out
  seed: 42
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "custom_product", cfg.Scoring.CombinationRule)
	assert.True(t, cfg.Scoring.Parallel)
	require.Len(t, cfg.Scoring.Components, 2)

	act := cfg.Scoring.Components[0]
	assert.Equal(t, "predictive_property", act.Type)
	assert.Equal(t, "activity", act.Name)
	assert.Equal(t, 7.0, act.Weight)
	assert.Equal(t, "sigmoid", act.Transform.Kind)
	assert.Equal(t, 0.25, act.Transform.K)

	assert.Equal(t, "scaffold_similarity", cfg.Diversity.Name)
	assert.Equal(t, 0.35, cfg.Diversity.MinSimilarity)
	assert.Equal(t, 20, cfg.Inception.MemorySize)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Worker.ComponentTimeout)
	assert.Equal(t, "demo-run", cfg.Run.Label)
	assert.Equal(t, int64(42), cfg.Run.Seed)

	// Untouched sections pick up defaults.
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidConfigIsFatal(t *testing.T) {
	bad := `
scoring:
  combination_rule: custom_sum
  components:
    - type: tpsa
      name: t
      weight: -3
`
	_, err := Load(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MOLSCORE_DIVERSITY_FILTER_NBMAX", "7")
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Diversity.NbMax)
}

func TestLoad_DiversityDefaultsWhenUnset(t *testing.T) {
	noDiversity := `
scoring:
  combination_rule: custom_sum
  components:
    - type: tpsa
      name: t
      weight: 1
`
	cfg, err := Load(writeConfig(t, noDiversity))
	require.NoError(t, err)
	assert.Equal(t, "scaffold", cfg.Diversity.Name)
	assert.Equal(t, DefaultNbMax, cfg.Diversity.NbMax)
	assert.Equal(t, DefaultMinScore, cfg.Diversity.MinScore)
	assert.Equal(t, DefaultMinSimilarity, cfg.Diversity.MinSimilarity)
}

func TestLoad_ExplicitZeroThresholdsSurvive(t *testing.T) {
	// minscore 0 means "no admission threshold" and must not be rewritten
	// to the default.
	zeroed := `
scoring:
  combination_rule: custom_sum
  components:
    - type: tpsa
      name: t
      weight: 1
diversity_filter:
  name: scaffold_similarity
  nbmax: 25
  minscore: 0
  minsimilarity: 0
`
	cfg, err := Load(writeConfig(t, zeroed))
	require.NoError(t, err)
	assert.Zero(t, cfg.Diversity.MinScore)
	assert.Zero(t, cfg.Diversity.MinSimilarity)
}

func TestLoad_ExplicitZeroNbMaxIsFatal(t *testing.T) {
	bad := `
scoring:
  combination_rule: custom_sum
  components:
    - type: tpsa
      name: t
      weight: 1
diversity_filter:
  nbmax: 0
`
	_, err := Load(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nbmax")
}

func TestWatch_ReloadsConfig(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	updates := make(chan *Config, 4)
	Watch(path, func(cfg *Config) { updates <- cfg })

	// Let the watcher register before the file is rewritten.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML+"\nlog:\n  level: debug\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-updates:
			if cfg.Log.Level == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestLoadFromEnv_DefaultsInvalidWithoutComponents(t *testing.T) {
	// A bare environment carries no components, which is a fatal
	// configuration error rather than a silently empty scoring function.
	_, err := LoadFromEnv()
	require.Error(t, err)
}
