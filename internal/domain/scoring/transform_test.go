package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolGen-Scoring/internal/config"
	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

func mustTransform(t *testing.T, cfg config.TransformConfig) Transform {
	t.Helper()
	tr, err := NewTransform(cfg)
	require.NoError(t, err)
	return tr
}

func TestNewTransform_DisabledIsIdentity(t *testing.T) {
	tr := mustTransform(t, config.TransformConfig{Enabled: false})
	assert.Equal(t, 0.37, tr(0.37))
	assert.Equal(t, 1.0, tr(1.0))
}

func TestTransform_Step(t *testing.T) {
	tr := mustTransform(t, config.TransformConfig{Enabled: true, Kind: TransformStep, Low: 1, High: 10})

	tests := []struct {
		raw  float64
		want float64
	}{
		{0.99, 0},
		{1, 1}, // boundaries are inclusive
		{5, 1},
		{10, 1},
		{10.01, 0},
		{-3, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tr(tt.raw), "raw=%v", tt.raw)
	}
}

func TestTransform_RightStep(t *testing.T) {
	tr := mustTransform(t, config.TransformConfig{Enabled: true, Kind: TransformRightStep, Low: 300})
	assert.Equal(t, 0.0, tr(299.9))
	assert.Equal(t, 1.0, tr(300))
	assert.Equal(t, 1.0, tr(500))
}

func TestTransform_Sigmoid(t *testing.T) {
	tr := mustTransform(t, config.TransformConfig{Enabled: true, Kind: TransformSigmoid, Low: 4, High: 6, K: 0.5})

	// Midpoint of [low, high] maps to 0.5 and the curve increases with x.
	assert.InDelta(t, 0.5, tr(5), 1e-9)
	assert.InDelta(t, 0.99684, tr(6), 1e-4)
	assert.InDelta(t, 0.00316, tr(4), 1e-4)
	assert.InDelta(t, 1.0, tr(20), 1e-6)
	assert.InDelta(t, 0.0, tr(-20), 1e-6)
}

func TestTransform_ReverseSigmoid(t *testing.T) {
	tr := mustTransform(t, config.TransformConfig{Enabled: true, Kind: TransformReverseSigmoid, Low: 4, High: 6, K: 0.5})

	// Mirror image of sigmoid: high raw values score low.
	assert.InDelta(t, 0.5, tr(5), 1e-9)
	assert.InDelta(t, 0.99684, tr(4), 1e-4)
	assert.InDelta(t, 0.00316, tr(6), 1e-4)
	assert.InDelta(t, 0.0, tr(20), 1e-6)
}

func TestTransform_DoubleSigmoid(t *testing.T) {
	tr := mustTransform(t, config.TransformConfig{
		Enabled: true, Kind: TransformDoubleSigmoid,
		Low: 200, High: 500, CoefDiv: 500, CoefSI: 20, CoefSE: 20,
	})

	// Near one inside the window, near zero well outside it.
	assert.InDelta(t, 1.0, tr(350), 1e-2)
	assert.InDelta(t, 0.0, tr(100), 1e-2)
	assert.InDelta(t, 0.0, tr(600), 1e-2)
}

func TestTransform_NonFiniteInputScoresZero(t *testing.T) {
	for _, cfg := range []config.TransformConfig{
		{Enabled: false},
		{Enabled: true, Kind: TransformStep, Low: 0, High: 1},
		{Enabled: true, Kind: TransformSigmoid, Low: 0, High: 1, K: 1},
	} {
		tr := mustTransform(t, cfg)
		assert.Equal(t, 0.0, tr(math.NaN()), "kind=%s", cfg.Kind)
		assert.Equal(t, 0.0, tr(math.Inf(1)), "kind=%s", cfg.Kind)
		assert.Equal(t, 0.0, tr(math.Inf(-1)), "kind=%s", cfg.Kind)
	}
}

func TestNewTransform_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TransformConfig
		code errors.ErrorCode
	}{
		{"unknown kind", config.TransformConfig{Enabled: true, Kind: "spline"}, errors.ErrCodeScoreUnknownTransform},
		{"step low above high", config.TransformConfig{Enabled: true, Kind: TransformStep, Low: 5, High: 1}, errors.ErrCodeScoreTransformParams},
		{"sigmoid degenerate window", config.TransformConfig{Enabled: true, Kind: TransformSigmoid, Low: 3, High: 3}, errors.ErrCodeScoreTransformParams},
		{"reverse_sigmoid degenerate window", config.TransformConfig{Enabled: true, Kind: TransformReverseSigmoid, Low: 3, High: 3}, errors.ErrCodeScoreTransformParams},
		{"double_sigmoid zero divisor", config.TransformConfig{Enabled: true, Kind: TransformDoubleSigmoid, Low: 1, High: 2}, errors.ErrCodeScoreTransformParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransform(tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code))
			assert.True(t, errors.IsFatal(err))
		})
	}
}
