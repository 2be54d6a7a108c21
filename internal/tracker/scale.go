// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package tracker is the per-sensor orientation pipeline: raw samples in,
// change-gated fused orientation out.
package tracker

import (
	"github.com/mechbanana/slimevr-tracker/internal/calibration"
	"github.com/mechbanana/slimevr-tracker/internal/imu"
)

// ScaledSample is one measurement converted to physical units.
type ScaledSample struct {
	AX, AY, AZ float64 // g after accel correction, raw counts otherwise
	GX, GY, GZ float64 // rad/s
}

// Scale converts a raw sample using the active calibration. Gyro output for
// axis i is exactly (raw[i] - bias[i]) * imu.GyroScale. With correctAccel
// set the accelerometer is bias- and matrix-corrected; otherwise raw counts
// pass through untouched. Pure and total: out-of-range values are never
// clamped.
func Scale(s imu.RawSample, p calibration.Params, correctAccel bool) ScaledSample {
	out := ScaledSample{
		GX: (float64(s.GX) - p.GyroBias[0]) * imu.GyroScale,
		GY: (float64(s.GY) - p.GyroBias[1]) * imu.GyroScale,
		GZ: (float64(s.GZ) - p.GyroBias[2]) * imu.GyroScale,
	}
	if correctAccel {
		out.AX, out.AY, out.AZ = p.ApplyAccel(float64(s.AX), float64(s.AY), float64(s.AZ))
	} else {
		out.AX = float64(s.AX)
		out.AY = float64(s.AY)
		out.AZ = float64(s.AZ)
	}
	return out
}
