package calibration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// spherePoints samples a sphere of the given radius and center on a
// latitude/longitude grid, dense enough for a well-conditioned fit.
func spherePoints(radius float64, center [3]float64) [][3]float64 {
	var pts [][3]float64
	for i := 1; i < 12; i++ {
		theta := math.Pi * float64(i) / 12
		for j := 0; j < 24; j++ {
			phi := 2 * math.Pi * float64(j) / 24
			pts = append(pts, [3]float64{
				center[0] + radius*math.Sin(theta)*math.Cos(phi),
				center[1] + radius*math.Sin(theta)*math.Sin(phi),
				center[2] + radius*math.Cos(theta),
			})
		}
	}
	return pts
}

func TestEllipsoidFitRecoversSphere(t *testing.T) {
	radius := 2000.0
	center := [3]float64{100, -200, 50}

	res, err := EllipsoidFit(spherePoints(radius, center))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.InDelta(t, center[i], res[0][i], 1e-6, "bias axis %d", i)
	}
	// The gain matrix of a perfect sphere is (1/r)*I.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1 / radius
			}
			require.InDelta(t, want, res[1+i][j], 1e-9, "matrix %d,%d", i, j)
		}
	}
}

func TestEllipsoidFitNormalizesCorrectedSamples(t *testing.T) {
	pts := spherePoints(16384, [3]float64{300, -150, 80})
	res, err := EllipsoidFit(pts)
	require.NoError(t, err)

	p := Params{
		AccelBias:   res[0],
		AccelMatrix: [3][3]float64{res[1], res[2], res[3]},
	}
	for _, v := range pts {
		x, y, z := p.ApplyAccel(v[0], v[1], v[2])
		require.InDelta(t, 1.0, math.Sqrt(x*x+y*y+z*z), 1e-6)
	}
}

func TestEllipsoidFitRejectsTooFewSamples(t *testing.T) {
	pts := spherePoints(100, [3]float64{})[:8]
	_, err := EllipsoidFit(pts)
	require.Error(t, err)
}
