// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package fusion

import "math"

// Mahony is a proportional+integral complementary filter over accel and
// gyro. It is the tracker's default filter.
type Mahony struct {
	Kp, Ki float64

	// Integral feedback, carried between steps.
	fbx, fby, fbz float64
}

// NewMahony returns a Mahony filter with the stock gains.
func NewMahony() *Mahony {
	return &Mahony{Kp: 2.0, Ki: 0.01}
}

// Step runs one Mahony update. A zero accelerometer vector skips the
// gravity correction and integrates the gyro alone.
func (m *Mahony) Step(prev State, ax, ay, az, gx, gy, gz, dt float64) State {
	q0, q1, q2, q3 := prev.W, prev.X, prev.Y, prev.Z

	if !(ax == 0 && ay == 0 && az == 0) {
		recip := 1.0 / math.Sqrt(ax*ax+ay*ay+az*az)
		ax *= recip
		ay *= recip
		az *= recip

		// Estimated direction of gravity from the current attitude.
		vx := 2.0 * (q1*q3 - q0*q2)
		vy := 2.0 * (q0*q1 + q2*q3)
		vz := q0*q0 - q1*q1 - q2*q2 + q3*q3

		// Error is the cross product between estimated and measured gravity.
		ex := ay*vz - az*vy
		ey := az*vx - ax*vz
		ez := ax*vy - ay*vx

		if m.Ki > 0 {
			m.fbx += m.Ki * ex * dt
			m.fby += m.Ki * ey * dt
			m.fbz += m.Ki * ez * dt
			gx += m.fbx
			gy += m.fby
			gz += m.fbz
		}
		gx += m.Kp * ex
		gy += m.Kp * ey
		gz += m.Kp * ez
	}

	// Integrate rate of change of quaternion.
	gx *= 0.5 * dt
	gy *= 0.5 * dt
	gz *= 0.5 * dt
	return normalize(State{
		W: q0 + (-q1*gx - q2*gy - q3*gz),
		X: q1 + (q0*gx + q2*gz - q3*gy),
		Y: q2 + (q0*gy - q1*gz + q3*gx),
		Z: q3 + (q0*gz + q1*gy - q2*gx),
	})
}
