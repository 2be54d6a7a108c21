// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tracker

import (
	"fmt"
	"log"
	"time"

	"github.com/westphae/quaternion"

	"github.com/mechbanana/slimevr-tracker/internal/calibration"
	"github.com/mechbanana/slimevr-tracker/internal/fusion"
	"github.com/mechbanana/slimevr-tracker/internal/imu"
	"github.com/mechbanana/slimevr-tracker/internal/telemetry"
)

// autoCalThreshold is the Z-axis reading, in g, beyond which the device
// counts as face down (negative) or face up (positive) for the
// flip-to-confirm calibration trigger.
const autoCalThreshold = 0.75

// Options fix a Sensor's behaviour at construction. These were compile-time
// switches in the firmware this replaces; as plain values both paths of each
// switch are testable in one binary.
type Options struct {
	SensorID        int
	Filter          fusion.Filter
	MountingOffset  quaternion.Quaternion
	CorrectAccel    bool
	OptimizeUpdates bool
	AutoCalibrate   bool
	Inspection      bool
	TempInterval    time.Duration

	// FlipSettle is how long the user has to flip the device face up to
	// confirm the auto-calibration trigger. Overridable in tests.
	FlipSettle time.Duration
}

// Sensor sequences one tracker: setup, the steady-state per-tick update, and
// calibration triggering. It is driven by a single task; Update is never
// called concurrently with itself or with TriggerCalibration.
type Sensor struct {
	opts   Options
	source imu.Source
	store  *calibration.Store
	config calibration.Persistence
	sink   telemetry.Sink
	engine *calibration.Engine

	working  bool
	state    fusion.State
	gate     Gate
	output   quaternion.Quaternion
	newData  bool
	lastTick time.Time
	lastTemp time.Time
}

// NewSensor wires a sensor from its collaborators. Every external effect
// (sampling, persistence, telemetry, signaling via the engine) arrives as an
// injected dependency.
func NewSensor(src imu.Source, store *calibration.Store, cfg calibration.Persistence, sink telemetry.Sink, engine *calibration.Engine, opts Options) *Sensor {
	if opts.Filter == nil {
		opts.Filter = fusion.NewMahony()
	}
	if opts.MountingOffset == (quaternion.Quaternion{}) {
		opts.MountingOffset = quaternion.Quaternion{W: 1}
	}
	if opts.FlipSettle == 0 {
		opts.FlipSettle = 5 * time.Second
	}
	return &Sensor{
		opts:   opts,
		source: src,
		store:  store,
		config: cfg,
		sink:   sink,
		engine: engine,
		gate:   Gate{Optimize: opts.OptimizeUpdates},
	}
}

// Setup connects to the IMU, optionally runs the auto-calibration trigger,
// and loads persisted calibration. A connectivity failure leaves this sensor
// non-working without affecting the rest of the process. Missing calibration
// is advisory only: the sensor runs degraded on default parameters.
func (s *Sensor) Setup() bool {
	if err := s.source.Connect(); err != nil {
		log.Printf("sensor %d: can't connect to IMU: %v", s.opts.SensorID, err)
		return false
	}
	log.Printf("sensor %d: connected to IMU (device id 0x%02x)", s.opts.SensorID, s.source.DeviceID())

	if s.opts.AutoCalibrate {
		s.maybeAutoCalibrate()
	}

	// A calibration run in maybeAutoCalibrate already populated the store;
	// don't overwrite it from disk, the file may be stale if the save failed.
	if _, ok := s.store.Lookup(s.opts.SensorID); !ok {
		p, found, err := s.config.Load(s.opts.SensorID)
		switch {
		case err != nil:
			log.Printf("sensor %d: calibration load failed, using defaults: %v", s.opts.SensorID, err)
		case !found:
			log.Printf("sensor %d: no calibration data found, using defaults; calibration is advised", s.opts.SensorID)
		default:
			s.store.Set(s.opts.SensorID, p)
		}
	}

	s.state = fusion.Identity()
	// Seed the timestamp baseline so the first Update sees a short,
	// non-negative delta. Go's monotonic clock cannot wrap, unlike the
	// microsecond tick counter on the hardware this replaces.
	s.lastTick = time.Now()
	s.working = true
	return true
}

// Working reports whether Setup completed successfully.
func (s *Sensor) Working() bool { return s.working }

// maybeAutoCalibrate runs the flip-to-confirm heuristic: a device lying face
// down at boot starts a full calibration run if the user flips it face up
// within the settle window.
func (s *Sensor) maybeAutoCalibrate() {
	sample, err := s.source.ReadSample()
	if err != nil {
		log.Printf("sensor %d: auto-calibration probe failed: %v", s.opts.SensorID, err)
		return
	}
	if float64(sample.AZ) > -autoCalThreshold*imu.CountsPerG {
		return
	}
	log.Printf("sensor %d: flip the device face up to start calibration", s.opts.SensorID)
	time.Sleep(s.opts.FlipSettle)

	// Re-read: comparing the pre-flip value again could never trigger.
	sample, err = s.source.ReadSample()
	if err != nil {
		log.Printf("sensor %d: auto-calibration probe failed: %v", s.opts.SensorID, err)
		return
	}
	if float64(sample.AZ) > autoCalThreshold*imu.CountsPerG {
		log.Printf("sensor %d: starting calibration", s.opts.SensorID)
		if err := s.engine.Run(calibration.Full); err != nil {
			log.Printf("sensor %d: calibration failed: %v", s.opts.SensorID, err)
		}
	}
}

// Update runs one steady-state cycle: read, scale, fuse, remap, gate. The
// periodic temperature read is a side channel; its failure never blocks
// orientation output.
func (s *Sensor) Update() {
	if !s.working {
		return
	}

	raw, err := s.source.ReadSample()
	if err != nil {
		log.Printf("sensor %d: sample read failed: %v", s.opts.SensorID, err)
		return
	}
	if s.opts.Inspection {
		s.sink.SendRawSample(s.opts.SensorID, raw)
	}

	scaled := Scale(raw, s.store.Get(s.opts.SensorID), s.opts.CorrectAccel)

	now := time.Now()
	dt := now.Sub(s.lastTick).Seconds()
	s.lastTick = now

	s.state = s.opts.Filter.Step(s.state, scaled.AX, scaled.AY, scaled.AZ, scaled.GX, scaled.GY, scaled.GZ, dt)
	q := quaternion.Prod(Remap(s.state), s.opts.MountingOffset)

	if s.opts.TempInterval > 0 && now.Sub(s.lastTemp) >= s.opts.TempInterval {
		s.lastTemp = now
		if t, err := s.source.ReadTemperature(); err != nil {
			log.Printf("sensor %d: temperature read failed: %v", s.opts.SensorID, err)
		} else {
			s.sink.SendTemperature(s.opts.SensorID, t)
		}
	}

	if s.gate.Check(q) {
		s.output = q
		s.newData = true
	}
}

// IsNewDataAvailable reports whether an orientation is waiting to be
// consumed.
func (s *Sensor) IsNewDataAvailable() bool { return s.newData }

// ConsumeOrientation returns the latest emitted orientation and clears the
// new-data flag.
func (s *Sensor) ConsumeOrientation() quaternion.Quaternion {
	s.newData = false
	return s.output
}

// TriggerCalibration runs a blocking calibration pass of the given kind.
// No orientation updates happen until it returns.
func (s *Sensor) TriggerCalibration(kind calibration.Kind) error {
	if !s.working {
		return fmt.Errorf("sensor %d: not working, calibration unavailable", s.opts.SensorID)
	}
	return s.engine.Run(kind)
}

// Remap converts the filter's quaternion convention into the tracker's
// output convention: a fixed axis permutation with one sign flip,
// (w,x,y,z) → (w,-y,x,z).
func Remap(st fusion.State) quaternion.Quaternion {
	return quaternion.Quaternion{W: st.W, X: -st.Y, Y: st.X, Z: st.Z}
}
