package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker             string
	MQTTClientIDWearable   string
	MQTTClientIDController string
	MQTTClientIDConsole    string

	// Topics
	TopicRun    string
	TopicStatus string

	// Display (SSD1306 over I2C)
	DisplayI2CBus  string
	DisplayI2CAddr uint16

	// Motion sensor (MPU9250 over SPI)
	IMUSPIDevice string
	IMUCSPin     string
	// Accelerometer: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	IMUAccelRange byte
	// Gyroscope: 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
	IMUGyroRange byte

	// Heart-rate source: "none", "max3010x" or "serial"
	HeartSource     string
	HeartSerialPort string
	HeartSerialBaud uint

	// Timing (milliseconds unless noted)
	MotionSampleInterval  int
	HomingDelayMS         int
	CountdownSeconds      int
	HeartMatchToleranceMS int

	// Protocol
	TrialsPerShape int

	// Export
	ExportDir string

	// Controller web server
	ControllerAddr string
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		MQTTClientIDWearable:   "gesture-grid-wearable",
		MQTTClientIDController: "gesture-grid-controller",
		MQTTClientIDConsole:    "gesture-grid-console",
		DisplayI2CAddr:         0x3C,
		HeartSource:            "none",
		HeartSerialBaud:        9600,
		MotionSampleInterval:   20,
		HomingDelayMS:          500,
		CountdownSeconds:       3,
		HeartMatchToleranceMS:  250,
		TrialsPerShape:         10,
		ControllerAddr:         ":8080",
	}
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_WEARABLE":
		c.MQTTClientIDWearable = value
	case "MQTT_CLIENT_ID_CONTROLLER":
		c.MQTTClientIDController = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_RUN":
		c.TopicRun = value
	case "TOPIC_STATUS":
		c.TopicStatus = value

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayI2CAddr = uint16(addr)

	// Motion sensor
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_ACCEL_RANGE":
		rangeVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACCEL_RANGE %q: %w", value, err)
		}
		if rangeVal < 0 || rangeVal > 3 {
			return fmt.Errorf("IMU_ACCEL_RANGE must be 0-3 (0=±2g, 1=±4g, 2=±8g, 3=±16g), got %d", rangeVal)
		}
		c.IMUAccelRange = byte(rangeVal)
	case "IMU_GYRO_RANGE":
		rangeVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_GYRO_RANGE %q: %w", value, err)
		}
		if rangeVal < 0 || rangeVal > 3 {
			return fmt.Errorf("IMU_GYRO_RANGE must be 0-3 (0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s), got %d", rangeVal)
		}
		c.IMUGyroRange = byte(rangeVal)

	// Heart rate
	case "HEART_SOURCE":
		switch value {
		case "none", "max3010x", "serial":
			c.HeartSource = value
		default:
			return fmt.Errorf("HEART_SOURCE must be none, max3010x or serial, got %q", value)
		}
	case "HEART_SERIAL_PORT":
		c.HeartSerialPort = value
	case "HEART_SERIAL_BAUD":
		baud, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid HEART_SERIAL_BAUD %q: %w", value, err)
		}
		c.HeartSerialBaud = uint(baud)

	// Timing
	case "MOTION_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MOTION_SAMPLE_INTERVAL %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("MOTION_SAMPLE_INTERVAL must be positive, got %d", interval)
		}
		c.MotionSampleInterval = interval
	case "HOMING_DELAY_MS":
		delay, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid HOMING_DELAY_MS %q: %w", value, err)
		}
		if delay < 0 {
			return fmt.Errorf("HOMING_DELAY_MS must not be negative, got %d", delay)
		}
		c.HomingDelayMS = delay
	case "COUNTDOWN_SECONDS":
		sec, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid COUNTDOWN_SECONDS %q: %w", value, err)
		}
		if sec < 0 {
			return fmt.Errorf("COUNTDOWN_SECONDS must not be negative, got %d", sec)
		}
		c.CountdownSeconds = sec
	case "HEART_MATCH_TOLERANCE_MS":
		tol, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid HEART_MATCH_TOLERANCE_MS %q: %w", value, err)
		}
		if tol < 0 {
			return fmt.Errorf("HEART_MATCH_TOLERANCE_MS must not be negative, got %d", tol)
		}
		c.HeartMatchToleranceMS = tol

	// Protocol
	case "TRIALS_PER_SHAPE":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TRIALS_PER_SHAPE %q: %w", value, err)
		}
		if n <= 0 {
			return fmt.Errorf("TRIALS_PER_SHAPE must be positive, got %d", n)
		}
		c.TrialsPerShape = n

	// Export
	case "EXPORT_DIR":
		c.ExportDir = value

	// Controller web server
	case "CONTROLLER_ADDR":
		c.ControllerAddr = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicRun == "" {
		return fmt.Errorf("TOPIC_RUN is required")
	}
	if c.TopicStatus == "" {
		return fmt.Errorf("TOPIC_STATUS is required")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("EXPORT_DIR is required")
	}
	if c.HeartSource == "serial" && c.HeartSerialPort == "" {
		return fmt.Errorf("HEART_SERIAL_PORT is required when HEART_SOURCE=serial")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Uses sync.Once
// so repeated calls are no-ops; Get is the only read path.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
