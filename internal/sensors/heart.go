package sensors

import (
	"errors"
	"fmt"
	"time"

	"github.com/cgxeiji/max3010x"

	"github.com/relabs-tech/gesture_grid/internal/config"
	"github.com/relabs-tech/gesture_grid/internal/sample"
)

// ErrNoReading means the heart-rate source had nothing usable this round:
// no finger contact, too much noise, or a line that did not parse. Callers
// skip the reading and poll again; it is never fatal.
var ErrNoReading = errors.New("heart: no reading")

// HeartSource delivers heart-rate readings. Cadence is irregular and
// source-dependent, unlike the fixed-rate motion stream.
type HeartSource interface {
	Next() (sample.Heart, error)
	Close() error
}

type maxSource struct {
	dev *max3010x.Device
}

// NewMAX3010xSource opens the MAX3010x pulse oximeter on the default I2C bus.
func NewMAX3010xSource() (HeartSource, error) {
	dev, err := max3010x.New()
	if err != nil {
		return nil, fmt.Errorf("heart: max3010x init: %w", err)
	}
	if err := dev.Startup(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("heart: max3010x startup: %w", err)
	}
	return &maxSource{dev: dev}, nil
}

func (s *maxSource) Next() (sample.Heart, error) {
	bpm, err := s.dev.HeartRate()
	if errors.Is(err, max3010x.ErrNotDetected) || errors.Is(err, max3010x.ErrTooNoisy) {
		return sample.Heart{}, ErrNoReading
	}
	if err != nil {
		return sample.Heart{}, fmt.Errorf("heart: max3010x read: %w", err)
	}
	return sample.Heart{At: time.Now(), BPM: bpm}, nil
}

func (s *maxSource) Close() error {
	s.dev.Close()
	return nil
}

// NewHeartSource builds the configured heart-rate source, or nil for "none".
func NewHeartSource() (HeartSource, error) {
	cfg := config.Get()
	switch cfg.HeartSource {
	case "none", "":
		return nil, nil
	case "max3010x":
		return NewMAX3010xSource()
	case "serial":
		return NewSerialHeartSource(cfg.HeartSerialPort, cfg.HeartSerialBaud)
	default:
		return nil, fmt.Errorf("heart: unknown source %q", cfg.HeartSource)
	}
}
