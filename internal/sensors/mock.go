// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/gesture_grid/internal/sample"
)

type mockMotion struct {
	start time.Time
}

// NewMockMotion creates a motion source that generates a smooth wrist-like
// wobble around 1 g, for runs without hardware.
func NewMockMotion() MotionSource {
	return &mockMotion{start: time.Now()}
}

func (m *mockMotion) Next() (sample.Motion, error) {
	elapsed := time.Since(m.start).Seconds()

	return sample.Motion{
		At: time.Now(),
		Ax: 0.2 * math.Sin(elapsed*2.1),
		Ay: 0.15 * math.Cos(elapsed*1.3),
		Az: 1 + 0.05*math.Sin(elapsed*0.7),
		Rx: 12 * math.Sin(elapsed),
		Ry: 9 * math.Cos(elapsed*0.8),
		Rz: 5 * math.Sin(elapsed*1.7),
	}, nil
}

type mockHeart struct {
	start time.Time
}

// NewMockHeart creates a heart-rate source drifting slowly around 70 bpm.
func NewMockHeart() HeartSource {
	return &mockHeart{start: time.Now()}
}

func (m *mockHeart) Next() (sample.Heart, error) {
	elapsed := time.Since(m.start).Seconds()
	return sample.Heart{
		At:  time.Now(),
		BPM: 70 + 6*math.Sin(elapsed/10),
	}, nil
}

func (m *mockHeart) Close() error { return nil }
