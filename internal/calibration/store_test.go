package calibration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreDefaultsWhenUnset(t *testing.T) {
	s := NewStore()

	require.Equal(t, DefaultParams(), s.Get(0))
	_, found := s.Lookup(0)
	require.False(t, found)
}

func TestStoreSetReplacesWholesale(t *testing.T) {
	s := NewStore()
	first := Params{GyroBias: [3]float64{1, 2, 3}, AccelMatrix: DefaultParams().AccelMatrix}
	second := Params{AccelBias: [3]float64{4, 5, 6}, AccelMatrix: DefaultParams().AccelMatrix}

	s.Set(1, first)
	require.Equal(t, first, s.Get(1))

	s.Set(1, second)
	got, found := s.Lookup(1)
	require.True(t, found)
	require.Equal(t, second, got)
	// The previous gyro bias is gone: Set swaps the whole value.
	require.Equal(t, [3]float64{}, got.GyroBias)
}

func TestDefaultParamsApplyAccelIsIdentity(t *testing.T) {
	p := DefaultParams()
	x, y, z := p.ApplyAccel(123, -456, 789)
	require.Equal(t, 123.0, x)
	require.Equal(t, -456.0, y)
	require.Equal(t, 789.0, z)
}

func TestApplyAccelSubtractsBiasThenScales(t *testing.T) {
	p := Params{
		AccelBias:   [3]float64{10, 20, 30},
		AccelMatrix: [3][3]float64{{2, 0, 0}, {0, 3, 0}, {0, 0, 4}},
	}
	x, y, z := p.ApplyAccel(11, 22, 33)
	require.Equal(t, 2.0, x)
	require.Equal(t, 6.0, y)
	require.Equal(t, 12.0, z)
}
