package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBPMLine(t *testing.T) {
	t.Run("valid lines", func(t *testing.T) {
		for line, want := range map[string]float64{
			"BPM=72\n":      72,
			"BPM=58.5\r\n":  58.5,
			"  BPM=120  \n": 120,
		} {
			got, ok := parseBPMLine(line)
			require.True(t, ok, "line %q", line)
			assert.Equal(t, want, got)
		}
	})

	t.Run("noise is skipped", func(t *testing.T) {
		for _, line := range []string{
			"",
			"\n",
			"RR=812\n",
			"BPM=\n",
			"BPM=abc\n",
			"BPM=5\n",   // below physiological window
			"BPM=400\n", // above physiological window
			"72\n",
		} {
			_, ok := parseBPMLine(line)
			assert.False(t, ok, "line %q must not parse", line)
		}
	})
}

func TestMockMotionIsPlausible(t *testing.T) {
	src := NewMockMotion()
	for i := 0; i < 10; i++ {
		m, err := src.Next()
		require.NoError(t, err)
		assert.False(t, m.At.IsZero())
		assert.InDelta(t, 1.0, m.Az, 0.1, "mock stays near 1 g on the vertical axis")
	}
}

func TestMockHeartStaysInWindow(t *testing.T) {
	src := NewMockHeart()
	defer src.Close()
	h, err := src.Next()
	require.NoError(t, err)
	assert.Greater(t, h.BPM, 50.0)
	assert.Less(t, h.BPM, 100.0)
}
