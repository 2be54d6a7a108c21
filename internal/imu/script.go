// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import "errors"

// ScriptSource replays a fixed sequence of samples, for tests and for running
// the tracker without hardware. Once the script is exhausted the last sample
// repeats.
type ScriptSource struct {
	ID     byte
	Temp   float64
	Script []RawSample

	// FailAt makes the read with this 0-based index return an error; negative
	// disables the failure.
	FailAt int

	ConnectErr error
	TempErr    error

	reads int
}

// NewScriptSource returns a source that replays script forever.
func NewScriptSource(script ...RawSample) *ScriptSource {
	return &ScriptSource{ID: whoAmILSM6DS3, Temp: 25, Script: script, FailAt: -1}
}

func (s *ScriptSource) Connect() error { return s.ConnectErr }

func (s *ScriptSource) DeviceID() byte { return s.ID }

// Reads reports how many samples have been read so far.
func (s *ScriptSource) Reads() int { return s.reads }

func (s *ScriptSource) ReadSample() (RawSample, error) {
	if s.FailAt >= 0 && s.reads == s.FailAt {
		return RawSample{}, errors.New("scripted read failure")
	}
	i := s.reads
	if i >= len(s.Script) {
		i = len(s.Script) - 1
	}
	s.reads++
	if i < 0 {
		return RawSample{}, errors.New("script is empty")
	}
	return s.Script[i], nil
}

func (s *ScriptSource) ReadTemperature() (float64, error) {
	if s.TempErr != nil {
		return 0, s.TempErr
	}
	return s.Temp, nil
}
