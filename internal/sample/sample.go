// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sample

import "time"

// Motion is one reading from the motion sensor: acceleration in g and
// rotation rate in deg/s, three axes each.
type Motion struct {
	At time.Time `json:"at"`

	Ax float64 `json:"ax"`
	Ay float64 `json:"ay"`
	Az float64 `json:"az"`

	Rx float64 `json:"rx"`
	Ry float64 `json:"ry"`
	Rz float64 `json:"rz"`
}

// Heart is one heart-rate reading in beats per minute.
type Heart struct {
	At  time.Time `json:"at"`
	BPM float64   `json:"bpm"`
}

// Sample is one buffered row of trial data. Motion and heart rate are each
// optional: a sample may carry only the fields its source delivered.
type Sample struct {
	At time.Time

	Ax, Ay, Az float64
	Rx, Ry, Rz float64
	HasMotion  bool

	HeartRate    float64
	HasHeartRate bool

	// Code is the gesture label of the cell highlighted when the sample
	// was recorded, grid.CodeNone when no cell was active.
	Code string
}

// FromMotion builds a sample from a motion reading tagged with code.
func FromMotion(m Motion, code string) Sample {
	return Sample{
		At:        m.At,
		Ax:        m.Ax,
		Ay:        m.Ay,
		Az:        m.Az,
		Rx:        m.Rx,
		Ry:        m.Ry,
		Rz:        m.Rz,
		HasMotion: true,
		Code:      code,
	}
}
