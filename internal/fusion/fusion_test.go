package fusion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func filters() map[string]func() Filter {
	return map[string]func() Filter{
		"mahony":   func() Filter { return NewMahony() },
		"madgwick": func() Filter { return NewMadgwick() },
	}
}

func TestIdentityIsStableAtRest(t *testing.T) {
	for name, mk := range filters() {
		t.Run(name, func(t *testing.T) {
			f := mk()
			st := Identity()
			for i := 0; i < 100; i++ {
				st = f.Step(st, 0, 0, 1, 0, 0, 0, 0.01)
			}
			require.InDelta(t, 1.0, st.W, 1e-9)
			require.InDelta(t, 0.0, st.X, 1e-9)
			require.InDelta(t, 0.0, st.Y, 1e-9)
			require.InDelta(t, 0.0, st.Z, 1e-9)
		})
	}
}

func TestGyroOnlyYawIntegration(t *testing.T) {
	// Rotate about Z at pi/2 rad/s for one second. Zero accel keeps both
	// filters on the pure integration path, so the result is a 90 degree yaw.
	for name, mk := range filters() {
		t.Run(name, func(t *testing.T) {
			f := mk()
			st := Identity()
			for i := 0; i < 1000; i++ {
				st = f.Step(st, 0, 0, 0, 0, 0, math.Pi/2, 0.001)
			}
			require.InDelta(t, math.Cos(math.Pi/4), st.W, 1e-3)
			require.InDelta(t, 0.0, st.X, 1e-3)
			require.InDelta(t, 0.0, st.Y, 1e-3)
			require.InDelta(t, math.Sin(math.Pi/4), st.Z, 1e-3)
		})
	}
}

func TestOutputStaysNormalized(t *testing.T) {
	for name, mk := range filters() {
		t.Run(name, func(t *testing.T) {
			f := mk()
			st := Identity()
			for i := 0; i < 500; i++ {
				st = f.Step(st, 0.1, -0.2, 0.97, 0.3, -0.1, 0.2, 0.01)
				norm := st.W*st.W + st.X*st.X + st.Y*st.Y + st.Z*st.Z
				require.InDelta(t, 1.0, norm, 1e-9)
			}
		})
	}
}

func TestMahonyConvergesToGravity(t *testing.T) {
	// Start tilted; feeding level gravity with no rotation must pull the
	// attitude back toward level.
	f := NewMahony()
	tilt := math.Pi / 8
	st := State{W: math.Cos(tilt / 2), X: math.Sin(tilt / 2)}

	for i := 0; i < 5000; i++ {
		st = f.Step(st, 0, 0, 1, 0, 0, 0, 0.01)
	}
	require.InDelta(t, 1.0, math.Abs(st.W), 1e-3)
	require.InDelta(t, 0.0, st.X, 1e-3)
}

func TestMadgwickConvergesToGravity(t *testing.T) {
	f := NewMadgwick()
	tilt := math.Pi / 8
	st := State{W: math.Cos(tilt / 2), X: math.Sin(tilt / 2)}

	for i := 0; i < 5000; i++ {
		st = f.Step(st, 0, 0, 1, 0, 0, 0, 0.01)
	}
	require.InDelta(t, 1.0, math.Abs(st.W), 1e-3)
	require.InDelta(t, 0.0, st.X, 1e-3)
}
