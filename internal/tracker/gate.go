// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tracker

import (
	"math"

	"github.com/westphae/quaternion"
)

// Epsilon is the per-component tolerance below which two orientations count
// as the same for emission purposes.
const Epsilon = 1e-4

// Gate suppresses re-emission of an orientation that has not moved beyond
// Epsilon on any component since the last emitted value. With Optimize off,
// every orientation passes.
type Gate struct {
	Optimize bool

	last    quaternion.Quaternion
	emitted bool
}

// Check reports whether q should be emitted, recording it as the last
// emitted value when it should.
func (g *Gate) Check(q quaternion.Quaternion) bool {
	if g.Optimize && g.emitted && equalsWithin(g.last, q, Epsilon) {
		return false
	}
	g.last = q
	g.emitted = true
	return true
}

func equalsWithin(a, b quaternion.Quaternion, eps float64) bool {
	return math.Abs(a.W-b.W) <= eps &&
		math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps
}
