// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package indicator drives the tracker's status light.
package indicator

import "time"

// Indicator is a user-visible status light.
type Indicator interface {
	On()
	Off()
	// Pattern blinks count times with the given on duration and gap between
	// blinks, and blocks until the pattern completes.
	Pattern(count int, duration, interval time.Duration)
}

// Nop is used when no LED is wired up.
type Nop struct{}

func (Nop) On()                                  {}
func (Nop) Off()                                 {}
func (Nop) Pattern(int, time.Duration, time.Duration) {}
