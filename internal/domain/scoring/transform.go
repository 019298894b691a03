// Package scoring implements the composite scoring function: typed
// components producing raw values per structure, monotonic transforms
// normalising them into [0,1], and weighted aggregation with an alert
// penalty applied once after aggregation.
package scoring

import (
	"math"

	"github.com/turtacn/MolGen-Scoring/internal/config"
	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Transform kinds accepted by NewTransform.
const (
	TransformSigmoid        = "sigmoid"
	TransformReverseSigmoid = "reverse_sigmoid"
	TransformDoubleSigmoid  = "double_sigmoid"
	TransformStep           = "step"
	TransformRightStep      = "right_step"
	TransformNone           = "no_transformation"
)

// Transform maps a raw component value into [0,1].  Transforms are pure
// functions; a non-finite input always maps to zero.
type Transform func(raw float64) float64

// NewTransform builds the transform described by cfg.  A disabled config
// yields the identity mapping (the component must already emit [0,1]).
// Unknown kinds and inconsistent parameters are fatal configuration errors.
func NewTransform(cfg config.TransformConfig) (Transform, error) {
	if !cfg.Enabled {
		return guarded(func(x float64) float64 { return x }), nil
	}

	kind := cfg.Kind
	if kind == "" {
		kind = TransformNone
	}
	switch kind {
	case TransformNone:
		return guarded(func(x float64) float64 { return x }), nil

	case TransformStep:
		if cfg.Low > cfg.High {
			return nil, errors.New(errors.ErrCodeScoreTransformParams,
				"step transform requires low <= high")
		}
		low, high := cfg.Low, cfg.High
		return guarded(func(x float64) float64 {
			if x >= low && x <= high {
				return 1
			}
			return 0
		}), nil

	case TransformRightStep:
		low := cfg.Low
		return guarded(func(x float64) float64 {
			if x >= low {
				return 1
			}
			return 0
		}), nil

	case TransformSigmoid:
		if cfg.Low == cfg.High {
			return nil, errors.New(errors.ErrCodeScoreTransformParams,
				"sigmoid transform requires low != high")
		}
		low, high, k := cfg.Low, cfg.High, sigmoidK(cfg.K)
		return guarded(func(x float64) float64 {
			exp := 10 * k * (x - (low+high)/2) / (low - high)
			return clamp01(1 / (1 + math.Pow(10, exp)))
		}), nil

	case TransformReverseSigmoid:
		if cfg.Low == cfg.High {
			return nil, errors.New(errors.ErrCodeScoreTransformParams,
				"reverse_sigmoid transform requires low != high")
		}
		low, high, k := cfg.Low, cfg.High, sigmoidK(cfg.K)
		return guarded(func(x float64) float64 {
			exp := k * (x - (high+low)/2) * 10 / (high - low)
			return clamp01(1 / (1 + math.Pow(10, exp)))
		}), nil

	case TransformDoubleSigmoid:
		if cfg.Low > cfg.High {
			return nil, errors.New(errors.ErrCodeScoreTransformParams,
				"double_sigmoid transform requires low <= high")
		}
		if cfg.CoefDiv == 0 {
			return nil, errors.New(errors.ErrCodeScoreTransformParams,
				"double_sigmoid transform requires coef_div != 0")
		}
		low, high := cfg.Low, cfg.High
		div, si, se := cfg.CoefDiv, cfg.CoefSI, cfg.CoefSE
		return guarded(func(x float64) float64 {
			rise := math.Pow(10, se*x/div)
			riseRef := math.Pow(10, se*low/div)
			fall := math.Pow(10, si*x/div)
			fallRef := math.Pow(10, si*high/div)
			return clamp01(rise/(rise+riseRef) - fall/(fall+fallRef))
		}), nil

	default:
		return nil, errors.New(errors.ErrCodeScoreUnknownTransform,
			"unknown transform kind").WithDetail(kind)
	}
}

// sigmoidK substitutes a unit steepness when the config leaves k zero.
func sigmoidK(k float64) float64 {
	if k == 0 {
		return 1
	}
	return k
}

// guarded wraps fn so non-finite raw values score zero instead of
// propagating NaN through aggregation.
func guarded(fn func(float64) float64) Transform {
	return func(raw float64) float64 {
		if math.IsNaN(raw) || math.IsInf(raw, 0) {
			return 0
		}
		out := fn(raw)
		if math.IsNaN(out) || math.IsInf(out, 0) {
			return 0
		}
		return out
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
