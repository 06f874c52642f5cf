// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/relabs-tech/gesture_grid/internal/grid"
	"github.com/relabs-tech/gesture_grid/internal/sample"
)

// Header is the fixed column layout of every exported file.
var Header = []string{
	"timestamp",
	"accel_x", "accel_y", "accel_z",
	"rot_x", "rot_y", "rot_z",
	"heart_rate",
	"gesture",
}

// Exporter flushes one shape's worth of buffered samples to storage.
type Exporter interface {
	Export(samples []sample.Sample, label string) error
}

// CSVExporter writes samples as a single comma-separated file per shape.
// Each export is a whole-file overwrite: a later run of the same shape
// replaces the previous file.
type CSVExporter struct {
	Dir string
}

// Path returns the output file for a shape label, e.g. "2x2" →
// <dir>/gesture_grid_2x2.csv.
func (e *CSVExporter) Path(label string) string {
	return filepath.Join(e.Dir, fmt.Sprintf("gesture_grid_%s.csv", label))
}

// Export renders the header plus one row per sample. Missing numeric fields
// are zero-filled and a missing gesture label renders as grid.CodeNone; the
// fill is a deliberate placeholder policy, not an error.
func (e *CSVExporter) Export(samples []sample.Sample, label string) error {
	path := e.Path(label)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return fmt.Errorf("export header: %w", err)
	}
	for _, s := range samples {
		if err := w.Write(Row(s)); err != nil {
			f.Close()
			return fmt.Errorf("export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("export flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export close %s: %w", path, err)
	}
	return nil
}

// Row renders one sample in Header column order.
func Row(s sample.Sample) []string {
	code := s.Code
	if code == "" {
		code = grid.CodeNone
	}
	return []string{
		s.At.Format(time.RFC3339Nano),
		num(s.Ax, s.HasMotion),
		num(s.Ay, s.HasMotion),
		num(s.Az, s.HasMotion),
		num(s.Rx, s.HasMotion),
		num(s.Ry, s.HasMotion),
		num(s.Rz, s.HasMotion),
		num(s.HeartRate, s.HasHeartRate),
		code,
	}
}

func num(v float64, present bool) string {
	if !present {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
