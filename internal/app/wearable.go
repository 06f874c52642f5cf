// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/relabs-tech/gesture_grid/internal/config"
	"github.com/relabs-tech/gesture_grid/internal/display"
	"github.com/relabs-tech/gesture_grid/internal/export"
	"github.com/relabs-tech/gesture_grid/internal/remote"
	"github.com/relabs-tech/gesture_grid/internal/sensors"
	"github.com/relabs-tech/gesture_grid/internal/trial"
)

// statusView fans sequencer snapshots out to the wearable screen and, when
// connected, to the MQTT status topic.
type statusView struct {
	ren       display.Renderer
	countdown int

	mu      sync.Mutex
	publish func(trial.Status)
}

func (v *statusView) setPublisher(publish func(trial.Status)) {
	v.mu.Lock()
	v.publish = publish
	v.mu.Unlock()
}

func (v *statusView) StateChanged(st trial.Status) {
	var err error
	if st.Countdown {
		// Shape just advanced; the pause screen announces the next one.
		err = v.ren.ShowCountdown(st.Shape, v.countdown)
	} else {
		err = v.ren.ShowGrid(st.Shape, st.Highlight)
	}
	if err != nil {
		log.Printf("wearable: display update error: %v", err)
	}

	v.mu.Lock()
	publish := v.publish
	v.mu.Unlock()
	if publish != nil {
		publish(st)
	}
}

// RunWearable wires the wearable unit together: screen, sensors, remote run
// signal, sequencer and exporter. With mock set it needs no hardware and no
// broker; the run flag is toggled by pressing Enter.
func RunWearable(mock bool) error {
	cfg := config.Get()

	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		return fmt.Errorf("wearable: create export dir: %w", err)
	}

	// Screen
	var ren display.Renderer
	if mock {
		ren = display.NewConsole()
	} else {
		oled, err := display.NewOLED()
		if err != nil {
			return err
		}
		ren = oled
	}
	defer ren.Close()
	if err := ren.ShowSplash(); err != nil {
		log.Printf("wearable: splash error: %v", err)
	}

	// Sensors. A missing sensor degrades to absent columns in the export,
	// it never blocks the protocol.
	var motion sensors.MotionSource
	var heart sensors.HeartSource
	if mock {
		motion = sensors.NewMockMotion()
		heart = sensors.NewMockHeart()
	} else {
		var err error
		motion, err = sensors.NewMPU9250Source()
		if err != nil {
			log.Printf("wearable: motion sensor unavailable, continuing without motion data: %v", err)
			motion = nil
		}
		heart, err = sensors.NewHeartSource()
		if err != nil {
			log.Printf("wearable: heart-rate source unavailable, continuing without heart rate: %v", err)
			heart = nil
		}
	}
	if heart != nil {
		defer heart.Close()
	}

	view := &statusView{ren: ren, countdown: cfg.CountdownSeconds}
	seq := trial.New(trial.Config{
		TrialsPerShape: cfg.TrialsPerShape,
		HomingDelay:    time.Duration(cfg.HomingDelayMS) * time.Millisecond,
		Countdown:      time.Duration(cfg.CountdownSeconds) * time.Second,
		HeartTolerance: time.Duration(cfg.HeartMatchToleranceMS) * time.Millisecond,
	}, trial.NewSelector(), &export.CSVExporter{Dir: cfg.ExportDir}, view)

	// Remote run signal
	var link remote.Link
	if mock {
		pipe := remote.NewPipe()
		pipe.Bind(seq.SetRunning)
		link = pipe
		go toggleOnEnter(pipe)
		log.Println("wearable: mock mode, press Enter to toggle the run flag")
	} else {
		sig, err := remote.Dial(cfg.MQTTBroker, cfg.MQTTClientIDWearable, cfg.TopicRun, cfg.TopicStatus, seq.SetRunning)
		if err != nil {
			return err
		}
		link = sig
		view.setPublisher(sig.PublishStatus)
	}
	defer link.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if motion != nil {
		go pollMotion(ctx, motion, seq, time.Duration(cfg.MotionSampleInterval)*time.Millisecond)
	}
	if heart != nil {
		go pollHeart(ctx, heart, seq)
	}

	log.Println("wearable: running")
	seq.Run(ctx)
	log.Println("wearable: shutting down")
	return nil
}

// pollMotion drives the fixed-rate motion stream into the sequencer loop.
func pollMotion(ctx context.Context, src sensors.MotionSource, seq *trial.Sequencer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m, err := src.Next()
			if err != nil {
				log.Printf("wearable: motion read error: %v", err)
				continue
			}
			seq.OfferMotion(m)
		}
	}
}

// pollHeart drives the irregular heart-rate stream into the sequencer loop.
func pollHeart(ctx context.Context, src sensors.HeartSource, seq *trial.Sequencer) {
	for ctx.Err() == nil {
		h, err := src.Next()
		if errors.Is(err, sensors.ErrNoReading) {
			time.Sleep(200 * time.Millisecond)
			continue
		}
		if err != nil {
			log.Printf("wearable: heart-rate read error: %v", err)
			time.Sleep(time.Second)
			continue
		}
		seq.OfferHeartRate(h)
	}
}

func toggleOnEnter(pipe *remote.Pipe) {
	scanner := bufio.NewScanner(os.Stdin)
	running := false
	for scanner.Scan() {
		running = !running
		log.Printf("wearable: run flag -> %v", running)
		pipe.Send(running)
	}
}
