// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gesture_grid/internal/app"
	"github.com/relabs-tech/gesture_grid/internal/config"
)

func main() {
	configPath := flag.String("config", "./gesture_grid_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting gesture-grid controller (web server, MQTT remote)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunController(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
