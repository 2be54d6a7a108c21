// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDTracker string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string

	// Topics (per-sensor suffix "/<id>" is appended by the telemetry sink)
	TopicOrientation string
	TopicTemperature string
	TopicRawSample   string
	TopicCalibration string

	// IMU hardware
	IMUI2CBus  string
	IMUI2CAddr uint16

	// Sensor behaviour
	SensorID        int
	FusionFilter    string // "mahony" or "madgwick"
	AccelCorrected  bool   // apply bias/matrix correction instead of raw counts
	OptimizeUpdates bool   // suppress unchanged orientation output
	AutoCalibration bool   // face-down flip-to-confirm trigger at setup
	Inspection      bool   // publish each raw sample
	MountingYawDeg  float64

	// Timing
	SampleIntervalMS int // steady-state tick period
	TempIntervalMS   int // temperature side-channel period

	// Calibration persistence
	CalibrationDir string

	// Status LED; empty disables
	LEDPin string

	// Web viewer
	WebServerPort int
}

// Package-level singleton: InitGlobal sets it once, Get reads it. The
// RWMutex keeps Get safe from any goroutine.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		MQTTClientIDTracker: "slimevr-tracker",
		MQTTClientIDConsole: "slimevr-console",
		MQTTClientIDWeb:     "slimevr-web",
		TopicOrientation:    "tracker/orientation",
		TopicTemperature:    "tracker/temperature",
		TopicRawSample:      "tracker/raw",
		TopicCalibration:    "tracker/calibration",
		IMUI2CAddr:          0x6A,
		FusionFilter:        "mahony",
		TempIntervalMS:      1000,
		WebServerPort:       8080,
	}
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_TRACKER":
		c.MQTTClientIDTracker = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_ORIENTATION":
		c.TopicOrientation = value
	case "TOPIC_TEMPERATURE":
		c.TopicTemperature = value
	case "TOPIC_RAW_SAMPLE":
		c.TopicRawSample = value
	case "TOPIC_CALIBRATION":
		c.TopicCalibration = value

	// IMU hardware
	case "IMU_I2C_BUS":
		c.IMUI2CBus = value
	case "IMU_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid IMU_I2C_ADDR %q: %w", value, err)
		}
		c.IMUI2CAddr = uint16(addr)

	// Sensor behaviour
	case "SENSOR_ID":
		id, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_ID %q: %w", value, err)
		}
		c.SensorID = id
	case "FUSION_FILTER":
		if value != "mahony" && value != "madgwick" {
			return fmt.Errorf("FUSION_FILTER must be \"mahony\" or \"madgwick\", got %q", value)
		}
		c.FusionFilter = value
	case "ACCEL_CORRECTED":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_CORRECTED %q: %w", value, err)
		}
		c.AccelCorrected = b
	case "OPTIMIZE_UPDATES":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid OPTIMIZE_UPDATES %q: %w", value, err)
		}
		c.OptimizeUpdates = b
	case "AUTO_CALIBRATION":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid AUTO_CALIBRATION %q: %w", value, err)
		}
		c.AutoCalibration = b
	case "INSPECTION":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid INSPECTION %q: %w", value, err)
		}
		c.Inspection = b
	case "MOUNTING_YAW_DEG":
		deg, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MOUNTING_YAW_DEG %q: %w", value, err)
		}
		c.MountingYawDeg = deg

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleIntervalMS = interval
	case "TEMP_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TEMP_INTERVAL %q: %w", value, err)
		}
		c.TempIntervalMS = interval

	// Calibration persistence
	case "CALIBRATION_DIR":
		c.CalibrationDir = value

	// LED
	case "LED_PIN":
		c.LEDPin = value

	// Web
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.IMUI2CBus == "" {
		return fmt.Errorf("IMU_I2C_BUS is required")
	}
	if c.SampleIntervalMS == 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.CalibrationDir == "" {
		return fmt.Errorf("CALIBRATION_DIR is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Only the first
// call loads; later calls are no-ops.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must have been
// called first, or this returns nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
