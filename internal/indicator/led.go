// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package indicator

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// LED drives a GPIO status LED through periph.
type LED struct {
	pin gpio.PinIO
}

// NewLED looks up the pin by name (e.g. "GPIO2" or "2").
func NewLED(pinName string) (*LED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("led pin %q not found", pinName)
	}
	return &LED{pin: pin}, nil
}

func (l *LED) On() {
	if err := l.pin.Out(gpio.High); err != nil {
		log.Printf("led: %v", err)
	}
}

func (l *LED) Off() {
	if err := l.pin.Out(gpio.Low); err != nil {
		log.Printf("led: %v", err)
	}
}

// Pattern blinks count times, blocking until done.
func (l *LED) Pattern(count int, duration, interval time.Duration) {
	for i := 0; i < count; i++ {
		l.On()
		time.Sleep(duration)
		l.Off()
		time.Sleep(interval)
	}
}
