package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/westphae/quaternion"
)

func TestGatePassesEverythingWhenOptimizeOff(t *testing.T) {
	g := Gate{Optimize: false}
	q := quaternion.Quaternion{W: 1}

	for i := 0; i < 5; i++ {
		require.True(t, g.Check(q))
	}
}

func TestGateFirstValueAlwaysPasses(t *testing.T) {
	g := Gate{Optimize: true}
	require.True(t, g.Check(quaternion.Quaternion{W: 1}))
}

func TestGateSuppressesWithinEpsilon(t *testing.T) {
	g := Gate{Optimize: true}
	require.True(t, g.Check(quaternion.Quaternion{W: 1}))

	almost := quaternion.Quaternion{W: 1 + Epsilon/2, X: Epsilon / 2, Y: -Epsilon / 2, Z: Epsilon / 2}
	require.False(t, g.Check(almost))
}

func TestGatePassesWhenAnyComponentMoves(t *testing.T) {
	cases := []struct {
		name string
		q    quaternion.Quaternion
	}{
		{"w", quaternion.Quaternion{W: 1 + 2*Epsilon}},
		{"x", quaternion.Quaternion{W: 1, X: 2 * Epsilon}},
		{"y", quaternion.Quaternion{W: 1, Y: -2 * Epsilon}},
		{"z", quaternion.Quaternion{W: 1, Z: 2 * Epsilon}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Gate{Optimize: true}
			require.True(t, g.Check(quaternion.Quaternion{W: 1}))
			require.True(t, g.Check(tc.q))
		})
	}
}

func TestGateComparesAgainstLastEmittedNotLastSeen(t *testing.T) {
	g := Gate{Optimize: true}
	base := quaternion.Quaternion{W: 1}
	require.True(t, g.Check(base))

	// A slow drift in sub-epsilon steps stays suppressed until the drift
	// from the last emitted value crosses epsilon.
	step := Epsilon * 0.6
	require.False(t, g.Check(quaternion.Quaternion{W: 1, X: step}))
	require.True(t, g.Check(quaternion.Quaternion{W: 1, X: 2 * step}))
}
