// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package calibration estimates, stores and persists the per-device
// correction parameters applied to raw IMU samples.
package calibration

// Params holds the correction parameters for one sensor. The zero biases and
// identity matrix returned by DefaultParams are the degraded-but-functional
// state used until a calibration run has completed.
type Params struct {
	GyroBias    [3]float64    `json:"gyro_bias"`
	AccelBias   [3]float64    `json:"accel_bias"`
	AccelMatrix [3][3]float64 `json:"accel_matrix"`
}

// DefaultParams returns zero biases and an identity accelerometer matrix.
func DefaultParams() Params {
	return Params{
		AccelMatrix: [3][3]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	}
}

// ApplyAccel removes the bias and applies the correction matrix to one raw
// accelerometer vector. After a fit the matrix maps counts onto the unit
// (1 g) sphere, so the result is in g; with default parameters raw counts
// pass through unchanged.
func (p Params) ApplyAccel(x, y, z float64) (float64, float64, float64) {
	x -= p.AccelBias[0]
	y -= p.AccelBias[1]
	z -= p.AccelBias[2]
	m := p.AccelMatrix
	return m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z
}
