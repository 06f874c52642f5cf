// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"image"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/gesture_grid/internal/config"
	"github.com/relabs-tech/gesture_grid/internal/grid"
)

const (
	screenW = 128
	screenH = 64
)

// OLED renders the tap grid on an SSD1306 over I2C.
type OLED struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// NewOLED opens the configured I2C bus and initializes the display.
func NewOLED() (*OLED, error) {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("display: periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return nil, fmt.Errorf("display: i2c open: %w", err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("display: ssd1306 init: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	return &OLED{bus: bus, dev: dev}, nil
}

func blank() *image1bit.VerticalLSB {
	return image1bit.NewVerticalLSB(image.Rect(0, 0, screenW, screenH))
}

func drawText(img *image1bit.VerticalLSB, x, y int, s string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(s)
}

func fillRect(img *image1bit.VerticalLSB, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetBit(x, y, image1bit.On)
		}
	}
}

func outlineRect(img *image1bit.VerticalLSB, r image.Rectangle) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetBit(x, r.Min.Y, image1bit.On)
		img.SetBit(x, r.Max.Y-1, image1bit.On)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetBit(r.Min.X, y, image1bit.On)
		img.SetBit(r.Max.X-1, y, image1bit.On)
	}
}

func (o *OLED) ShowSplash() error {
	img := blank()
	drawText(img, 18, 26, "Gesture Grid")
	drawText(img, 12, 43, "waiting for run")
	return o.dev.Draw(o.dev.Bounds(), img, image.Point{})
}

func (o *OLED) ShowGrid(shape grid.Shape, highlight *grid.Cell) error {
	img := blank()
	for _, c := range shape.Cells() {
		r := CellRect(shape, c, screenW, screenH)
		if highlight != nil && c == *highlight {
			fillRect(img, r)
		} else {
			outlineRect(img, r)
		}
	}
	return o.dev.Draw(o.dev.Bounds(), img, image.Point{})
}

func (o *OLED) ShowCountdown(next grid.Shape, seconds int) error {
	img := blank()
	drawText(img, 28, 26, fmt.Sprintf("next: %s", next))
	drawText(img, 42, 43, fmt.Sprintf("in %ds", seconds))
	return o.dev.Draw(o.dev.Bounds(), img, image.Point{})
}

func (o *OLED) Close() error {
	return o.bus.Close()
}
