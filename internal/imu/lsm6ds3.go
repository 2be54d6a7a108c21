// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"encoding/binary"
	"fmt"
	"math"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// LSM6DS3 register map (subset used here).
const (
	regWhoAmI   = 0x0F
	regCtrl1XL  = 0x10
	regCtrl2G   = 0x11
	regCtrl3C   = 0x12
	regOutTempL = 0x20
	regOutXLG   = 0x22 // gyro X low; accel follows at 0x28

	whoAmILSM6DS3   = 0x69
	whoAmILSM6DS3TR = 0x6A
)

// GyroScale converts gyro counts at the ±245 °/s range to rad/s.
const GyroScale = 245.0 / 32768.0 * math.Pi / 180.0

// CountsPerG is the accelerometer sensitivity at the ±2 g range
// (0.061 mg/LSB).
const CountsPerG = 1000.0 / 0.061

// LSM6DS3 drives an ST LSM6DS3 over I2C.
type LSM6DS3 struct {
	dev  i2c.Dev
	addr uint16
	id   byte
}

// NewLSM6DS3 opens busName (e.g. "/dev/i2c-1" or "1") and prepares the device
// at addr. The sensor itself is not touched until Connect.
func NewLSM6DS3(busName string, addr uint16) (*LSM6DS3, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("i2c bus %q: %w", busName, err)
	}
	return NewLSM6DS3FromBus(bus, addr), nil
}

// NewLSM6DS3FromBus wraps an already-open bus. Used directly by tests.
func NewLSM6DS3FromBus(bus i2c.Bus, addr uint16) *LSM6DS3 {
	return &LSM6DS3{dev: i2c.Dev{Bus: bus, Addr: addr}, addr: addr}
}

// Connect verifies the WHO_AM_I register and configures both sensor blocks:
// 104 Hz output, ±2 g accelerometer, ±245 °/s gyroscope, block data update
// with register auto-increment.
func (s *LSM6DS3) Connect() error {
	var id [1]byte
	if err := s.dev.Tx([]byte{regWhoAmI}, id[:]); err != nil {
		return fmt.Errorf("lsm6ds3 0x%02x: who_am_i read: %w", s.addr, err)
	}
	s.id = id[0]
	if id[0] != whoAmILSM6DS3 && id[0] != whoAmILSM6DS3TR {
		return fmt.Errorf("lsm6ds3 0x%02x: unexpected device id 0x%02x", s.addr, id[0])
	}

	for _, w := range []struct{ reg, val byte }{
		{regCtrl1XL, 0x40},
		{regCtrl2G, 0x40},
		{regCtrl3C, 0x44},
	} {
		if err := s.dev.Tx([]byte{w.reg, w.val}, nil); err != nil {
			return fmt.Errorf("lsm6ds3 0x%02x: write reg 0x%02x: %w", s.addr, w.reg, err)
		}
	}
	return nil
}

// DeviceID returns the WHO_AM_I value read during Connect.
func (s *LSM6DS3) DeviceID() byte { return s.id }

// ReadSample burst-reads the six motion registers in one transaction. The
// device lays out gyro first, accel second, little endian.
func (s *LSM6DS3) ReadSample() (RawSample, error) {
	var buf [12]byte
	if err := s.dev.Tx([]byte{regOutXLG}, buf[:]); err != nil {
		return RawSample{}, fmt.Errorf("lsm6ds3 0x%02x: motion read: %w", s.addr, err)
	}
	return RawSample{
		GX: int16(binary.LittleEndian.Uint16(buf[0:2])),
		GY: int16(binary.LittleEndian.Uint16(buf[2:4])),
		GZ: int16(binary.LittleEndian.Uint16(buf[4:6])),
		AX: int16(binary.LittleEndian.Uint16(buf[6:8])),
		AY: int16(binary.LittleEndian.Uint16(buf[8:10])),
		AZ: int16(binary.LittleEndian.Uint16(buf[10:12])),
	}, nil
}

// ReadTemperature returns the die temperature in °C (16 LSB/°C, 0 at 25 °C).
func (s *LSM6DS3) ReadTemperature() (float64, error) {
	var buf [2]byte
	if err := s.dev.Tx([]byte{regOutTempL}, buf[:]); err != nil {
		return 0, fmt.Errorf("lsm6ds3 0x%02x: temperature read: %w", s.addr, err)
	}
	raw := int16(binary.LittleEndian.Uint16(buf[:]))
	return 25.0 + float64(raw)/16.0, nil
}
