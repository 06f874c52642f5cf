package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gesture_grid_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const minimal = `
MQTT_BROKER=tcp://localhost:1883
TOPIC_RUN=gesture_grid/run
TOPIC_STATUS=gesture_grid/status
EXPORT_DIR=/tmp/gesture_grid
`

func TestLoadMinimalWithDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "gesture_grid/run", cfg.TopicRun)
	assert.Equal(t, 20, cfg.MotionSampleInterval)
	assert.Equal(t, 500, cfg.HomingDelayMS)
	assert.Equal(t, 10, cfg.TrialsPerShape)
	assert.Equal(t, uint16(0x3C), cfg.DisplayI2CAddr)
	assert.Equal(t, "none", cfg.HeartSource)
	assert.Equal(t, ":8080", cfg.ControllerAddr)
	assert.Equal(t, 250*time.Millisecond,
		time.Duration(cfg.HeartMatchToleranceMS)*time.Millisecond)
}

func TestLoadOverridesCommentsAndHex(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+`
# display on the secondary bus
DISPLAY_I2C_BUS=1
DISPLAY_I2C_ADDR=0x3D
TRIALS_PER_SHAPE=5
HEART_SOURCE=serial
HEART_SERIAL_PORT=/dev/ttyUSB0
HEART_SERIAL_BAUD=115200
IMU_ACCEL_RANGE=2
`))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x3D), cfg.DisplayI2CAddr)
	assert.Equal(t, 5, cfg.TrialsPerShape)
	assert.Equal(t, "serial", cfg.HeartSource)
	assert.Equal(t, uint(115200), cfg.HeartSerialBaud)
	assert.Equal(t, byte(2), cfg.IMUAccelRange)
}

func TestLoadRejectsInvalidInput(t *testing.T) {
	cases := map[string]string{
		"unknown key":         minimal + "BOGUS_KEY=1\n",
		"missing broker":      "TOPIC_RUN=a\nTOPIC_STATUS=b\nEXPORT_DIR=/tmp\n",
		"missing export dir":  "MQTT_BROKER=tcp://x\nTOPIC_RUN=a\nTOPIC_STATUS=b\n",
		"bad accel range":     minimal + "IMU_ACCEL_RANGE=7\n",
		"bad heart source":    minimal + "HEART_SOURCE=ble\n",
		"serial without port": minimal + "HEART_SOURCE=serial\n",
		"zero trials":         minimal + "TRIALS_PER_SHAPE=0\n",
		"malformed line":      minimal + "JUSTAKEY\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
