package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseContext_ValidateDuration(t *testing.T) {
	valid := []float64{0, 30.5, MaxDurationSeconds}
	for _, d := range valid {
		assert.NoError(t, ResponseContext{DurationSeconds: Float64Ptr(d)}.Validate(), "duration %v", d)
	}

	invalid := map[string]float64{
		"negative":  -1,
		"too large": 1e20,
		"nan":       math.NaN(),
		"+inf":      math.Inf(1),
		"-inf":      math.Inf(-1),
	}
	for name, d := range invalid {
		assert.Error(t, ResponseContext{DurationSeconds: Float64Ptr(d)}.Validate(), name)
	}
}

func TestResponseContext_NormalizedClamps(t *testing.T) {
	cases := map[float64]float64{
		-5:          0,
		42:          42,
		1e20:        MaxDurationSeconds,
		math.Inf(1): MaxDurationSeconds,
	}
	for in, want := range cases {
		rc := ResponseContext{DurationSeconds: Float64Ptr(in)}.Normalized()
		require.NotNil(t, rc.DurationSeconds)
		assert.Equal(t, want, *rc.DurationSeconds, "input %v", in)
	}

	rc := ResponseContext{DurationSeconds: Float64Ptr(math.NaN())}.Normalized()
	assert.Equal(t, 0.0, *rc.DurationSeconds)

	assert.Nil(t, ResponseContext{}.Normalized().DurationSeconds)
}

func TestResponseContext_NormalizedDoesNotMutateCaller(t *testing.T) {
	d := -3.0
	ResponseContext{DurationSeconds: &d}.Normalized()
	assert.Equal(t, -3.0, d)
}
