// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/westphae/quaternion"

	"github.com/mechbanana/slimevr-tracker/internal/calibration"
	"github.com/mechbanana/slimevr-tracker/internal/config"
	"github.com/mechbanana/slimevr-tracker/internal/fusion"
	"github.com/mechbanana/slimevr-tracker/internal/imu"
	"github.com/mechbanana/slimevr-tracker/internal/indicator"
	"github.com/mechbanana/slimevr-tracker/internal/telemetry"
	"github.com/mechbanana/slimevr-tracker/internal/tracker"
)

// RunTracker runs the steady-state tracker: one sensor, one task, one tick
// per SAMPLE_INTERVAL. A calibration run triggered at setup blocks the loop
// until it completes.
func RunTracker() error {
	cfg := config.Get()

	src, err := imu.NewLSM6DS3(cfg.IMUI2CBus, cfg.IMUI2CAddr)
	if err != nil {
		return fmt.Errorf("imu: %w", err)
	}

	ind := newIndicator(cfg)

	sink, err := telemetry.NewMQTTSink(cfg.MQTTBroker, cfg.MQTTClientIDTracker, topics(cfg))
	if err != nil {
		return err
	}
	defer sink.Close()

	store := calibration.NewStore()
	files := calibration.NewFileStore(cfg.CalibrationDir)
	engine := calibration.NewEngine(cfg.SensorID, src, store, files, sink, ind)

	sensor := tracker.NewSensor(src, store, files, sink, engine, tracker.Options{
		SensorID:        cfg.SensorID,
		Filter:          newFilter(cfg.FusionFilter),
		MountingOffset:  mountingOffset(cfg.MountingYawDeg),
		CorrectAccel:    cfg.AccelCorrected,
		OptimizeUpdates: cfg.OptimizeUpdates,
		AutoCalibrate:   cfg.AutoCalibration,
		Inspection:      cfg.Inspection,
		TempInterval:    time.Duration(cfg.TempIntervalMS) * time.Millisecond,
	})

	if !sensor.Setup() {
		return fmt.Errorf("sensor %d: setup failed", cfg.SensorID)
	}

	log.Printf("tracker: sensor %d running, publishing to %s every %dms", cfg.SensorID, cfg.MQTTBroker, cfg.SampleIntervalMS)
	ticker := time.NewTicker(time.Duration(cfg.SampleIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		sensor.Update()
		if sensor.IsNewDataAvailable() {
			sink.SendOrientation(cfg.SensorID, sensor.ConsumeOrientation())
		}
	}
	return nil
}

func topics(cfg *config.Config) telemetry.Topics {
	return telemetry.Topics{
		Orientation: cfg.TopicOrientation,
		Temperature: cfg.TopicTemperature,
		RawSample:   cfg.TopicRawSample,
		Calibration: cfg.TopicCalibration,
	}
}

func newFilter(name string) fusion.Filter {
	if name == "madgwick" {
		return fusion.NewMadgwick()
	}
	return fusion.NewMahony()
}

func newIndicator(cfg *config.Config) indicator.Indicator {
	if cfg.LEDPin == "" {
		return indicator.Nop{}
	}
	led, err := indicator.NewLED(cfg.LEDPin)
	if err != nil {
		log.Printf("tracker: status LED unavailable: %v", err)
		return indicator.Nop{}
	}
	return led
}

// mountingOffset builds the fixed rotation compensating for how the sensor
// package is mounted on the body segment, as a yaw about the vertical axis.
func mountingOffset(yawDeg float64) quaternion.Quaternion {
	half := yawDeg * math.Pi / 180 / 2
	return quaternion.Quaternion{W: math.Cos(half), Z: math.Sin(half)}
}
