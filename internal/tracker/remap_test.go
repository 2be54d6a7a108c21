package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/westphae/quaternion"

	"github.com/mechbanana/slimevr-tracker/internal/fusion"
)

func TestRemapAxisConvention(t *testing.T) {
	cases := []struct {
		name string
		in   fusion.State
		want quaternion.Quaternion
	}{
		{"identity", fusion.State{W: 1}, quaternion.Quaternion{W: 1}},
		{"x-becomes-y", fusion.State{X: 1}, quaternion.Quaternion{Y: 1}},
		{"y-becomes-minus-x", fusion.State{Y: 1}, quaternion.Quaternion{X: -1}},
		{"z-stays", fusion.State{Z: 1}, quaternion.Quaternion{Z: 1}},
		{
			"mixed",
			fusion.State{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5},
			quaternion.Quaternion{W: 0.5, X: -0.5, Y: 0.5, Z: 0.5},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Remap(tc.in))
		})
	}
}

func TestRemapPreservesNorm(t *testing.T) {
	in := fusion.State{W: 0.1, X: 0.7, Y: -0.5, Z: 0.5}
	out := Remap(in)

	normIn := in.W*in.W + in.X*in.X + in.Y*in.Y + in.Z*in.Z
	normOut := out.W*out.W + out.X*out.X + out.Y*out.Y + out.Z*out.Z
	require.InDelta(t, normIn, normOut, 1e-15)
}
