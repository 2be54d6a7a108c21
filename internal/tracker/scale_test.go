package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechbanana/slimevr-tracker/internal/calibration"
	"github.com/mechbanana/slimevr-tracker/internal/imu"
)

func TestScaleGyroFormula(t *testing.T) {
	cases := []struct {
		name string
		raw  int16
		bias float64
	}{
		{"zero", 0, 0},
		{"positive", 1000, 0},
		{"negative", -1000, 0},
		{"biased", 500, 123.5},
		{"max", 32767, 0},
		{"min", -32768, -10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := calibration.DefaultParams()
			p.GyroBias = [3]float64{tc.bias, tc.bias, tc.bias}
			got := Scale(imu.RawSample{GX: tc.raw, GY: tc.raw, GZ: tc.raw}, p, false)

			want := (float64(tc.raw) - tc.bias) * imu.GyroScale
			require.Equal(t, want, got.GX)
			require.Equal(t, want, got.GY)
			require.Equal(t, want, got.GZ)
		})
	}
}

func TestScaleIsPure(t *testing.T) {
	s := imu.RawSample{AX: 1, AY: 2, AZ: 3, GX: 4, GY: 5, GZ: 6}
	p := calibration.Params{
		GyroBias:    [3]float64{1, 2, 3},
		AccelBias:   [3]float64{0.5, 0.5, 0.5},
		AccelMatrix: [3][3]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}},
	}

	first := Scale(s, p, true)
	second := Scale(s, p, true)
	require.Equal(t, first, second)
}

func TestScaleRawAccelPassesThrough(t *testing.T) {
	p := calibration.DefaultParams()
	p.AccelBias = [3]float64{100, 100, 100} // must be ignored without correction

	got := Scale(imu.RawSample{AX: 42, AY: -17, AZ: 16384}, p, false)
	require.Equal(t, 42.0, got.AX)
	require.Equal(t, -17.0, got.AY)
	require.Equal(t, 16384.0, got.AZ)
}

func TestScaleCorrectedAccelAppliesBiasAndMatrix(t *testing.T) {
	p := calibration.Params{
		AccelBias:   [3]float64{10, 20, 30},
		AccelMatrix: [3][3]float64{{0.5, 0, 0}, {0, 0.5, 0}, {0, 0, 0.5}},
	}

	got := Scale(imu.RawSample{AX: 12, AY: 24, AZ: 36}, p, true)
	require.Equal(t, 1.0, got.AX)
	require.Equal(t, 2.0, got.AY)
	require.Equal(t, 3.0, got.AZ)
}
