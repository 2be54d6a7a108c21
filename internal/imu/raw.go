// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// RawSample is one raw accelerometer+gyroscope reading, in sensor counts.
type RawSample struct {
	AX int16 `json:"ax"` // accel
	AY int16 `json:"ay"`
	AZ int16 `json:"az"`

	GX int16 `json:"gx"` // gyro
	GY int16 `json:"gy"`
	GZ int16 `json:"gz"`
}

// Source is a single physical IMU. Connect must succeed before any of the
// read methods are used.
type Source interface {
	Connect() error
	DeviceID() byte
	ReadSample() (RawSample, error)
	ReadTemperature() (float64, error)
}
