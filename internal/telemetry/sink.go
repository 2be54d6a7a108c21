// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package telemetry carries tracker output to the outside world. Sinks are
// fire-and-forget: delivery failures are logged, never returned to the
// caller, so the orientation pipeline is not coupled to the transport.
package telemetry

import (
	"github.com/westphae/quaternion"

	"github.com/mechbanana/slimevr-tracker/internal/imu"
)

// Sink receives fused output and calibration telemetry for one tracker.
type Sink interface {
	SendOrientation(sensorID int, q quaternion.Quaternion)
	SendTemperature(sensorID int, celsius float64)
	SendRawSample(sensorID int, s imu.RawSample)
	SendCalibrationSample(sensorID int, phase string, v [3]float64)
	SendCalibrationFinished(sensorID int)
}

// Nop discards everything. Used when no broker is configured and in tests.
type Nop struct{}

func (Nop) SendOrientation(int, quaternion.Quaternion)    {}
func (Nop) SendTemperature(int, float64)                  {}
func (Nop) SendRawSample(int, imu.RawSample)              {}
func (Nop) SendCalibrationSample(int, string, [3]float64) {}
func (Nop) SendCalibrationFinished(int)                   {}
