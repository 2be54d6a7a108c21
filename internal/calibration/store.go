// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package calibration

import "sync"

// Store owns the live correction parameters for each sensor. Replacement is
// a single atomic swap: a reader sees either the fully-old or the fully-new
// value, never a mix, so the steady-state cycle and a future multi-goroutine
// port both read it safely.
type Store struct {
	mu     sync.RWMutex
	params map[int]Params
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{params: make(map[int]Params)}
}

// Get returns the live parameters for sensorID, or the defaults when none
// have been set.
func (s *Store) Get(sensorID int) Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.params[sensorID]; ok {
		return p
	}
	return DefaultParams()
}

// Lookup is Get plus whether an entry exists.
func (s *Store) Lookup(sensorID int) (Params, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.params[sensorID]
	if !ok {
		return DefaultParams(), false
	}
	return p, true
}

// Set replaces the parameters for sensorID wholesale.
func (s *Store) Set(sensorID int, p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[sensorID] = p
}
