// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/gesture_grid/internal/config"
	"github.com/relabs-tech/gesture_grid/internal/sample"
)

// MotionSource delivers one motion reading per call. The wearable app polls
// it at the configured cadence (~50 Hz) and hands readings to the sequencer.
type MotionSource interface {
	Next() (sample.Motion, error)
}

type mpuSource struct {
	imu *mpu9250.MPU9250
	// counts → g  /  counts → deg/s, derived from the configured ranges
	accelScale float64
	gyroScale  float64
}

// NewMPU9250Source initializes the wrist unit's MPU9250 over SPI.
func NewMPU9250Source() (MotionSource, error) {
	cfg := config.Get()
	if cfg.IMUSPIDevice == "" {
		return nil, fmt.Errorf("motion: IMU_SPI_DEVICE not configured")
	}
	if cfg.IMUCSPin == "" {
		return nil, fmt.Errorf("motion: IMU_CS_PIN not configured")
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("motion: periph host init: %w", err)
	}

	cs := gpioreg.ByName(cfg.IMUCSPin)
	if cs == nil {
		return nil, fmt.Errorf("motion: CS pin %q not found", cfg.IMUCSPin)
	}

	tr, err := mpu9250.NewSpiTransport(cfg.IMUSPIDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("motion: SPI transport (%s): %w", cfg.IMUSPIDevice, err)
	}

	imu, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("motion: device creation: %w", err)
	}
	if err := imu.Init(); err != nil {
		return nil, fmt.Errorf("motion: initialization: %w", err)
	}

	if err := imu.SetAccelRange(cfg.IMUAccelRange); err != nil {
		return nil, fmt.Errorf("motion: set accel range: %w", err)
	}
	accelFS := []int{2, 4, 8, 16}[cfg.IMUAccelRange]
	log.Printf("motion: accelerometer range set to %d (±%dg)", cfg.IMUAccelRange, accelFS)

	if err := imu.SetGyroRange(cfg.IMUGyroRange); err != nil {
		return nil, fmt.Errorf("motion: set gyro range: %w", err)
	}
	gyroFS := []int{250, 500, 1000, 2000}[cfg.IMUGyroRange]
	log.Printf("motion: gyroscope range set to %d (±%d°/s)", cfg.IMUGyroRange, gyroFS)

	if err := imu.Calibrate(); err != nil {
		log.Printf("motion: calibration failed, continuing uncalibrated: %v", err)
	} else {
		log.Println("motion: calibration complete")
	}

	return &mpuSource{
		imu:        imu,
		accelScale: float64(accelFS) / 32768.0,
		gyroScale:  float64(gyroFS) / 32768.0,
	}, nil
}

// Next reads one accelerometer + gyroscope tuple and converts it to
// physical units.
func (s *mpuSource) Next() (sample.Motion, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return sample.Motion{}, fmt.Errorf("motion accel X: %w", err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return sample.Motion{}, fmt.Errorf("motion accel Y: %w", err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return sample.Motion{}, fmt.Errorf("motion accel Z: %w", err)
	}

	gx, err := s.imu.GetRotationX()
	if err != nil {
		return sample.Motion{}, fmt.Errorf("motion gyro X: %w", err)
	}
	gy, err := s.imu.GetRotationY()
	if err != nil {
		return sample.Motion{}, fmt.Errorf("motion gyro Y: %w", err)
	}
	gz, err := s.imu.GetRotationZ()
	if err != nil {
		return sample.Motion{}, fmt.Errorf("motion gyro Z: %w", err)
	}

	return sample.Motion{
		At: time.Now(),
		Ax: float64(ax) * s.accelScale,
		Ay: float64(ay) * s.accelScale,
		Az: float64(az) * s.accelScale,
		Rx: float64(gx) * s.gyroScale,
		Ry: float64(gy) * s.gyroScale,
		Rz: float64(gz) * s.gyroScale,
	}, nil
}
