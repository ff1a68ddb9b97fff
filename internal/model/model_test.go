package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdsValidate(t *testing.T) {
	ok := Thresholds{ExtremeBearish: 0, Bearish: 0.06, SidewaysBearish: 0.10, Neutral: 0.12, Bullish: 0.15}
	assert.NoError(t, ok.Validate())

	equal := ok
	equal.SidewaysBearish = equal.Bearish
	assert.NoError(t, equal.Validate(), "equal neighbours leave an empty bucket but are allowed")

	desc := ok
	desc.Neutral = 0.05
	assert.True(t, errors.Is(desc.Validate(), ErrInvalidInput))

	nan := ok
	nan.Bullish = math.NaN()
	assert.True(t, errors.Is(nan.Validate(), ErrInvalidInput))
}

func TestUnitSizingValidate(t *testing.T) {
	ok := UnitSizing{ExtremeBearish: 2, Bearish: 1, SidewaysBearish: 0.5, Bullish: 0.5, ExtremeBullish: 1}
	assert.NoError(t, ok.Validate())

	zero := UnitSizing{}
	assert.NoError(t, zero.Validate())

	neg := ok
	neg.Bullish = -1
	err := neg.Validate()
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "units.bullish")

	inf := ok
	inf.ExtremeBearish = math.Inf(1)
	assert.True(t, errors.Is(inf.Validate(), ErrInvalidInput))
}
