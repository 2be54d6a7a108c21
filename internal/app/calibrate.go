// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"

	"github.com/mechbanana/slimevr-tracker/internal/calibration"
	"github.com/mechbanana/slimevr-tracker/internal/config"
	"github.com/mechbanana/slimevr-tracker/internal/imu"
	"github.com/mechbanana/slimevr-tracker/internal/telemetry"
)

// RunCalibrate performs one explicit calibration run from the command line,
// without waiting for the face-down auto trigger. kindName is "full",
// "gyro" or "accel".
func RunCalibrate(kindName string) error {
	var kind calibration.Kind
	switch kindName {
	case "full":
		kind = calibration.Full
	case "gyro":
		kind = calibration.GyroOnly
	case "accel":
		kind = calibration.AccelOnly
	default:
		return fmt.Errorf("unknown calibration kind %q (want full, gyro or accel)", kindName)
	}

	cfg := config.Get()

	src, err := imu.NewLSM6DS3(cfg.IMUI2CBus, cfg.IMUI2CAddr)
	if err != nil {
		return fmt.Errorf("imu: %w", err)
	}
	if err := src.Connect(); err != nil {
		return err
	}
	log.Printf("calibrate: connected to IMU (device id 0x%02x)", src.DeviceID())

	// Telemetry is best-effort here; without a reachable broker the run
	// still proceeds.
	var sink telemetry.Sink = telemetry.Nop{}
	if mq, err := telemetry.NewMQTTSink(cfg.MQTTBroker, cfg.MQTTClientIDTracker, topics(cfg)); err != nil {
		log.Printf("calibrate: no telemetry: %v", err)
	} else {
		sink = mq
		defer mq.Close()
	}

	store := calibration.NewStore()
	files := calibration.NewFileStore(cfg.CalibrationDir)

	// Seed the store so a partial-kind run carries the persisted other half
	// through the commit.
	if p, found, err := files.Load(cfg.SensorID); err != nil {
		log.Printf("calibrate: existing calibration unreadable, starting from defaults: %v", err)
	} else if found {
		store.Set(cfg.SensorID, p)
	}

	engine := calibration.NewEngine(cfg.SensorID, src, store, files, sink, newIndicator(cfg))
	return engine.Run(kind)
}
