// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package fusion

import "math"

// Madgwick is the gradient-descent filter; selectable instead of Mahony via
// configuration.
type Madgwick struct {
	Beta float64
}

// NewMadgwick returns a Madgwick filter with the stock gain.
func NewMadgwick() *Madgwick {
	return &Madgwick{Beta: 0.1}
}

// Step runs one Madgwick IMU update. A zero accelerometer vector skips the
// corrective gradient step and integrates the gyro alone.
func (m *Madgwick) Step(prev State, ax, ay, az, gx, gy, gz, dt float64) State {
	q0, q1, q2, q3 := prev.W, prev.X, prev.Y, prev.Z

	// Rate of change of quaternion from the gyroscope.
	qDot0 := 0.5 * (-q1*gx - q2*gy - q3*gz)
	qDot1 := 0.5 * (q0*gx + q2*gz - q3*gy)
	qDot2 := 0.5 * (q0*gy - q1*gz + q3*gx)
	qDot3 := 0.5 * (q0*gz + q1*gy - q2*gx)

	if !(ax == 0 && ay == 0 && az == 0) {
		recip := 1.0 / math.Sqrt(ax*ax+ay*ay+az*az)
		ax *= recip
		ay *= recip
		az *= recip

		x2q0 := 2.0 * q0
		x2q1 := 2.0 * q1
		x2q2 := 2.0 * q2
		x2q3 := 2.0 * q3
		x4q0 := 4.0 * q0
		x4q1 := 4.0 * q1
		x4q2 := 4.0 * q2
		x8q1 := 8.0 * q1
		x8q2 := 8.0 * q2
		q0q0 := q0 * q0
		q1q1 := q1 * q1
		q2q2 := q2 * q2
		q3q3 := q3 * q3

		// Gradient descent corrective step.
		s0 := x4q0*q2q2 + x2q2*ax + x4q0*q1q1 - x2q1*ay
		s1 := x4q1*q3q3 - x2q3*ax + 4.0*q0q0*q1 - x2q0*ay - x4q1 + x8q1*q1q1 + x8q1*q2q2 + x4q1*az
		s2 := 4.0*q0q0*q2 + x2q0*ax + x4q2*q3q3 - x2q3*ay - x4q2 + x8q2*q1q1 + x8q2*q2q2 + x4q2*az
		s3 := 4.0*q1q1*q3 - x2q1*ax + 4.0*q2q2*q3 - x2q2*ay
		// The gradient is the zero vector when the attitude already agrees
		// with the measured gravity; there is nothing to correct then.
		if norm := math.Sqrt(s0*s0 + s1*s1 + s2*s2 + s3*s3); norm > 0 {
			recip = 1.0 / norm
			qDot0 -= m.Beta * s0 * recip
			qDot1 -= m.Beta * s1 * recip
			qDot2 -= m.Beta * s2 * recip
			qDot3 -= m.Beta * s3 * recip
		}
	}

	return normalize(State{
		W: q0 + qDot0*dt,
		X: q1 + qDot1*dt,
		Y: q2 + qDot2*dt,
		Z: q3 + qDot3*dt,
	})
}
