package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeChemInvalidSMILES, "unclosed ring bond")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeChemInvalidSMILES, err.Code)
	assert.Equal(t, "[CHEM_001] unclosed ring bond", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestWithDetail(t *testing.T) {
	base := InvalidParam("weight must be >= 0")
	detailed := base.WithDetail("component=qed")

	assert.Equal(t, "[COMMON_002] weight must be >= 0: component=qed", detailed.Error())
	// Receiver is not mutated.
	assert.Empty(t, base.Detail)

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("ignored"))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "never happens"))

	cause := fmt.Errorf("open model.json: no such file")
	err := Wrap(cause, ErrCodeScoreModelNotLoaded, "model artifact unreadable")
	assert.Equal(t, ErrCodeScoreModelNotLoaded, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := New(ErrCodeDiversityInvalidConfig, "nbmax must be >= 1")
	outer := Wrap(inner, CodeUnknown, "building diversity filter")
	assert.Equal(t, ErrCodeDiversityInvalidConfig, outer.Code)
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeChemParsingFailed, "bad token")
	wrapped := fmt.Errorf("scoring structure 17: %w", inner)

	assert.True(t, IsCode(wrapped, ErrCodeChemParsingFailed))
	assert.False(t, IsCode(wrapped, ErrCodeScoreComponentFailed))
	assert.False(t, IsCode(nil, ErrCodeChemParsingFailed))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeScoreUnknownComponent, "no such kind")))
	assert.True(t, IsFatal(New(ErrCodeInceptionInvalidConfig, "memory_size < 0")))
	assert.True(t, IsFatal(Validation("nbmax must be >= 1")))

	// Per-structure failures are recoverable.
	assert.False(t, IsFatal(New(ErrCodeChemInvalidSMILES, "unparsable")))
	assert.False(t, IsFatal(New(ErrCodeScoreComponentFailed, "model input mismatch")))
	assert.False(t, IsFatal(errors.New("plain error")))
	assert.False(t, IsFatal(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(errors.New("plain")))
	assert.Equal(t, ErrCodeTimeout, GetCode(New(ErrCodeTimeout, "component timed out")))
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "CHEM", ErrCodeChemScaffoldFailed.Category())
	assert.Equal(t, "SCORE", ErrCodeScoreInvalidWeight.Category())
	assert.Equal(t, "DIV", ErrCodeDiversityExportFailed.Category())
	assert.Equal(t, "INC", ErrCodeInceptionSeedRejected.Category())
	assert.Equal(t, "OK", CodeOK.Category())
}
