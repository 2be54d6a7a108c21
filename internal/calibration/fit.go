// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package calibration

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitFunc maps a buffer of raw accelerometer samples to a 4×3 result where
// row 0 is the bias vector and rows 1-3 a 3×3 correction matrix.
type FitFunc func(samples [][3]float64) ([4][3]float64, error)

// EllipsoidFit least-squares-fits an ellipsoid to the samples and returns
// the center as the bias plus the matrix that maps the centered samples onto
// the unit sphere, correcting scale and cross-axis errors. Under rotation a
// perfect accelerometer traces a sphere of magnitude 1 g, so the corrected
// output is in g.
func EllipsoidFit(samples [][3]float64) ([4][3]float64, error) {
	var out [4][3]float64
	n := len(samples)
	if n < 9 {
		return out, fmt.Errorf("ellipsoid fit needs at least 9 samples, got %d", n)
	}

	// General quadric through the samples: xᵀA₃x + 2bᵀx = 1, solved for the
	// 9 parameters by least squares.
	d := mat.NewDense(n, 9, nil)
	ones := mat.NewVecDense(n, nil)
	for i, s := range samples {
		x, y, z := s[0], s[1], s[2]
		d.SetRow(i, []float64{
			x * x, y * y, z * z,
			2 * x * y, 2 * x * z, 2 * y * z,
			2 * x, 2 * y, 2 * z,
		})
		ones.SetVec(i, 1)
	}
	var p mat.VecDense
	if err := p.SolveVec(d, ones); err != nil {
		return out, fmt.Errorf("ellipsoid fit: %w", err)
	}

	a3 := mat.NewDense(3, 3, []float64{
		p.AtVec(0), p.AtVec(3), p.AtVec(4),
		p.AtVec(3), p.AtVec(1), p.AtVec(5),
		p.AtVec(4), p.AtVec(5), p.AtVec(2),
	})
	b := mat.NewVecDense(3, []float64{p.AtVec(6), p.AtVec(7), p.AtVec(8)})

	// Center c = -A₃⁻¹b; the centered form is (x-c)ᵀ(A₃/r)(x-c) = 1 with
	// r = 1 - bᵀc.
	var center mat.VecDense
	if err := center.SolveVec(a3, b); err != nil {
		return out, fmt.Errorf("ellipsoid fit: center: %w", err)
	}
	center.ScaleVec(-1, &center)
	r := 1 - mat.Dot(b, &center)
	if r <= 0 {
		return out, errors.New("ellipsoid fit: degenerate solution")
	}

	m := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			m.SetSym(i, j, a3.At(i, j)/r)
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(m, true) {
		return out, errors.New("ellipsoid fit: eigendecomposition failed")
	}
	vals := eig.Values(nil)
	for _, v := range vals {
		if v <= 0 {
			return out, errors.New("ellipsoid fit: samples do not trace an ellipsoid")
		}
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Matrix square root: G = V·sqrt(Λ)·Vᵀ maps the centered ellipsoid onto
	// the unit sphere.
	for i := 0; i < 3; i++ {
		out[0][i] = center.AtVec(i)
		for j := 0; j < 3; j++ {
			var g float64
			for k := 0; k < 3; k++ {
				g += vecs.At(i, k) * math.Sqrt(vals[k]) * vecs.At(j, k)
			}
			out[1+i][j] = g
		}
	}
	return out, nil
}
