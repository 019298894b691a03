package scoring

import (
	"math"

	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Combination rules.
const (
	RuleCustomSum     = "custom_sum"
	RuleCustomProduct = "custom_product"
)

// Aggregator combines the transformed component scores of one structure
// into a single value in [0,1].  The rule is fixed for the run.
type Aggregator struct {
	rule string
}

// NewAggregator builds an aggregator for the given combination rule.  An
// unknown rule is a fatal configuration error.
func NewAggregator(rule string) (*Aggregator, error) {
	switch rule {
	case RuleCustomSum, RuleCustomProduct:
		return &Aggregator{rule: rule}, nil
	default:
		return nil, errors.New(errors.ErrCodeScoreUnknownRule,
			"unknown combination rule").WithDetail(rule)
	}
}

// Rule returns the configured combination rule.
func (a *Aggregator) Rule() string { return a.rule }

// Combine aggregates the weighted scores.  custom_sum is the weighted
// arithmetic mean; custom_product is the weighted geometric mean, where a
// single zero drives the aggregate to zero.  An empty set or all-zero
// weights yield zero.
func (a *Aggregator) Combine(scores []WeightedScore) float64 {
	var totalWeight float64
	for _, s := range scores {
		totalWeight += s.Weight
	}
	if totalWeight == 0 {
		return 0
	}

	switch a.rule {
	case RuleCustomProduct:
		product := 1.0
		for _, s := range scores {
			if s.Weight == 0 {
				continue
			}
			if s.Score == 0 {
				return 0
			}
			product *= math.Pow(s.Score, s.Weight/totalWeight)
		}
		return clamp01(product)

	default: // RuleCustomSum
		var sum float64
		for _, s := range scores {
			sum += s.Weight * s.Score
		}
		return clamp01(sum / totalWeight)
	}
}

// ApplyAlertPenalty halves the aggregate when an alert matched.  Callers
// apply it exactly once, after full aggregation.
func ApplyAlertPenalty(total float64, matched bool) float64 {
	if matched {
		return total / 2
	}
	return total
}
