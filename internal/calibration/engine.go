// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package calibration

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mechbanana/slimevr-tracker/internal/imu"
	"github.com/mechbanana/slimevr-tracker/internal/indicator"
	"github.com/mechbanana/slimevr-tracker/internal/telemetry"
)

// Kind selects which parts of a calibration run execute. Gyro and
// accelerometer calibration are independent; a full run does both.
type Kind int

const (
	Full Kind = iota
	GyroOnly
	AccelOnly
)

func (k Kind) String() string {
	switch k {
	case GyroOnly:
		return "gyro"
	case AccelOnly:
		return "accel"
	default:
		return "full"
	}
}

// Phase is the engine's current state, observable for logging and telemetry.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseSettleWait    Phase = "settle-wait"
	PhaseGyroSampling  Phase = "gyro-sampling"
	PhaseAccelPrep     Phase = "accel-prep"
	PhaseAccelSampling Phase = "accel-sampling"
	PhaseFitting       Phase = "fitting"
	PhaseCommitting    Phase = "committing"
)

const (
	// SampleCount samples are collected per phase; the gyro bias is the mean
	// over exactly this many readings.
	SampleCount = 300
	// SettleDelay is how long the device must sit still before gyro
	// sampling begins.
	SettleDelay = 2 * time.Second
	// AccelSampleDelay paces accelerometer collection so the user can rotate
	// the device between readings. It also paces the indicator blinking.
	AccelSampleDelay = 250 * time.Millisecond
)

// ErrAborted reports a calibration run abandoned partway. Nothing was
// committed; the store holds whatever it held before the run.
var ErrAborted = errors.New("calibration aborted")

// Engine runs the blocking calibration procedure for one sensor and commits
// the result to the live store and to durable storage. All collaborators are
// injected so tests substitute doubles for every one of them.
type Engine struct {
	SensorID  int
	Source    imu.Source
	Store     *Store
	Config    Persistence
	Telemetry telemetry.Sink
	Indicator indicator.Indicator
	Fit       FitFunc

	// Pacing, overridable so tests run without real-time waits.
	Settle      time.Duration
	SampleDelay time.Duration

	phase Phase
}

// NewEngine wires an engine with the default fit routine and pacing.
func NewEngine(sensorID int, src imu.Source, store *Store, cfg Persistence, sink telemetry.Sink, ind indicator.Indicator) *Engine {
	return &Engine{
		SensorID:    sensorID,
		Source:      src,
		Store:       store,
		Config:      cfg,
		Telemetry:   sink,
		Indicator:   ind,
		Fit:         EllipsoidFit,
		Settle:      SettleDelay,
		SampleDelay: AccelSampleDelay,
		phase:       PhaseIdle,
	}
}

// Phase returns the engine's current state.
func (e *Engine) Phase() Phase {
	if e.phase == "" {
		return PhaseIdle
	}
	return e.phase
}

// Run executes one blocking calibration pass. Nothing else happens on the
// sensor's task until it returns: the host tick loop is deliberately stalled
// for the whole run, which takes over a minute at the default pacing. There
// is no cancellation; the run completes or aborts on the first read or fit
// failure, in which case the store is left untouched and nothing is
// committed.
func (e *Engine) Run(kind Kind) error {
	defer func() {
		e.phase = PhaseIdle
		e.Indicator.Off()
	}()

	e.phase = PhaseSettleWait
	e.Indicator.On()
	log.Printf("calibration: sensor %d: starting %s run; put the device down and keep it still", e.SensorID, kind)
	e.sleep(e.Settle)

	// Start from the live parameters so a partial-kind run keeps the other
	// half intact, then commit the combined result wholesale.
	params := e.Store.Get(e.SensorID)

	if kind == Full || kind == GyroOnly {
		bias, err := e.sampleGyroBias()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAborted, err)
		}
		params.GyroBias = bias
		e.Telemetry.SendCalibrationSample(e.SensorID, "gyro-bias", bias)
	}

	if kind == Full || kind == AccelOnly {
		// The sample buffer lives exactly as long as the sampling→fit
		// sequence; every exit path drops it.
		buf, err := e.sampleAccel()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAborted, err)
		}
		e.phase = PhaseFitting
		log.Printf("calibration: sensor %d: computing accelerometer correction", e.SensorID)
		res, err := e.Fit(buf)
		if err != nil {
			return fmt.Errorf("%w: accel fit: %v", ErrAborted, err)
		}
		params.AccelBias = res[0]
		params.AccelMatrix = [3][3]float64{res[1], res[2], res[3]}
	}

	e.phase = PhaseCommitting
	e.Store.Set(e.SensorID, params)
	if err := e.Config.Save(e.SensorID, params); err != nil {
		// The new parameters stay applied for this session even though they
		// were not durably saved.
		log.Printf("calibration: sensor %d: save failed, calibration not persisted: %v", e.SensorID, err)
	}
	e.Telemetry.SendCalibrationFinished(e.SensorID)
	log.Printf("calibration: sensor %d: %s run complete", e.SensorID, kind)
	return nil
}

// sampleGyroBias averages the gyro over SampleCount readings taken while the
// device is stationary. Any read failure is fatal to the run: a bias
// averaged over a short batch is worse than none.
func (e *Engine) sampleGyroBias() ([3]float64, error) {
	e.phase = PhaseGyroSampling
	log.Printf("calibration: sensor %d: gathering gyro baseline", e.SensorID)

	var sum [3]float64
	for i := 0; i < SampleCount; i++ {
		s, err := e.Source.ReadSample()
		if err != nil {
			return [3]float64{}, fmt.Errorf("gyro sample %d: %v", i, err)
		}
		sum[0] += float64(s.GX)
		sum[1] += float64(s.GY)
		sum[2] += float64(s.GZ)
	}
	return [3]float64{
		sum[0] / SampleCount,
		sum[1] / SampleCount,
		sum[2] / SampleCount,
	}, nil
}

// sampleAccel announces the rotation phase, then collects SampleCount raw
// accelerometer vectors, emitting each one to telemetry as it arrives. The
// indicator blinks once per sample, paced by SampleDelay.
func (e *Engine) sampleAccel() ([][3]float64, error) {
	e.phase = PhaseAccelPrep
	log.Printf("calibration: sensor %d: gently rotate the device through different orientations", e.SensorID)
	e.Indicator.Pattern(3, 300*time.Millisecond, 300*time.Millisecond)

	e.phase = PhaseAccelSampling
	buf := make([][3]float64, 0, SampleCount)
	for i := 0; i < SampleCount; i++ {
		e.Indicator.On()
		s, err := e.Source.ReadSample()
		if err != nil {
			return nil, fmt.Errorf("accel sample %d: %v", i, err)
		}
		v := [3]float64{float64(s.AX), float64(s.AY), float64(s.AZ)}
		buf = append(buf, v)
		e.Telemetry.SendCalibrationSample(e.SensorID, "accel", v)
		e.Indicator.Off()
		e.sleep(e.SampleDelay)
	}
	return buf, nil
}

func (e *Engine) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
