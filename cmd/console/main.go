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

	log.Println("starting gesture-grid console (MQTT subscriber)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
