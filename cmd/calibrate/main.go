// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/mechbanana/slimevr-tracker/internal/app"
	"github.com/mechbanana/slimevr-tracker/internal/config"
)

func main() {
	configPath := flag.String("config", "./tracker_config.txt", "path to configuration file")
	kind := flag.String("kind", "full", "calibration kind: full, gyro or accel")
	flag.Parse()

	log.Println("starting slimevr-tracker calibration run")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunCalibrate(*kind); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
