package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

func TestNewAggregator_UnknownRule(t *testing.T) {
	_, err := NewAggregator("weighted_median")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeScoreUnknownRule))
	assert.True(t, errors.IsFatal(err))
}

func TestCombine_CustomSum(t *testing.T) {
	agg, err := NewAggregator(RuleCustomSum)
	require.NoError(t, err)

	// Weight-7 classifier at 0.9 plus two weight-1 components at 1:
	// (7*0.9 + 1 + 1) / 9.
	scores := []WeightedScore{
		{Name: "activity", Score: 0.9, Weight: 7},
		{Name: "mw", Score: 1, Weight: 1},
		{Name: "rotatable", Score: 1, Weight: 1},
	}
	total := agg.Combine(scores)
	assert.InDelta(t, 0.9111, total, 1e-4)
	assert.InDelta(t, 0.4556, ApplyAlertPenalty(total, true), 1e-4)
}

func TestCombine_CustomSumIsOneIffAllOne(t *testing.T) {
	agg, err := NewAggregator(RuleCustomSum)
	require.NoError(t, err)

	all := []WeightedScore{{Score: 1, Weight: 3}, {Score: 1, Weight: 0.5}}
	assert.Equal(t, 1.0, agg.Combine(all))

	one := []WeightedScore{{Score: 1, Weight: 3}, {Score: 0.99, Weight: 0.5}}
	assert.Less(t, agg.Combine(one), 1.0)
}

func TestCombine_CustomProduct(t *testing.T) {
	agg, err := NewAggregator(RuleCustomProduct)
	require.NoError(t, err)

	// Equal weights give the plain geometric mean.
	assert.InDelta(t, 0.5, agg.Combine([]WeightedScore{
		{Score: 0.5, Weight: 1},
		{Score: 0.5, Weight: 1},
	}), 1e-9)

	// A single zero drives the aggregate to zero regardless of weights.
	assert.Equal(t, 0.0, agg.Combine([]WeightedScore{
		{Score: 1, Weight: 100},
		{Score: 0, Weight: 0.001},
		{Score: 1, Weight: 100},
	}))
}

func TestCombine_DegenerateInputs(t *testing.T) {
	for _, rule := range []string{RuleCustomSum, RuleCustomProduct} {
		agg, err := NewAggregator(rule)
		require.NoError(t, err)
		assert.Equal(t, 0.0, agg.Combine(nil), "rule=%s", rule)
		assert.Equal(t, 0.0, agg.Combine([]WeightedScore{{Score: 1, Weight: 0}}), "rule=%s", rule)
	}
}

func TestApplyAlertPenalty(t *testing.T) {
	assert.Equal(t, 0.8, ApplyAlertPenalty(0.8, false))
	assert.Equal(t, 0.4, ApplyAlertPenalty(0.8, true))
	assert.Equal(t, 0.0, ApplyAlertPenalty(0, true))
}
