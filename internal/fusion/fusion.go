// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package fusion provides the orientation filters consumed by the tracker.
// Each filter maps (previous state, one scaled measurement, elapsed seconds)
// to a new state; it never touches hardware or shared state outside itself.
package fusion

import "math"

// State is the filter's orientation estimate, in the filter's own axis
// convention. The tracker remaps it into the output convention.
type State struct {
	W, X, Y, Z float64
}

// Identity is the initial state before any measurement has been fused.
func Identity() State { return State{W: 1} }

// Filter advances an orientation estimate one measurement at a time.
// gx..gz are rad/s, ax..az may be in any consistent unit (the update
// normalizes them), dt is elapsed seconds.
type Filter interface {
	Step(prev State, ax, ay, az, gx, gy, gz, dt float64) State
}

func normalize(s State) State {
	n := math.Sqrt(s.W*s.W + s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	if n == 0 {
		return Identity()
	}
	return State{W: s.W / n, X: s.X / n, Y: s.Y / n, Z: s.Z / n}
}
