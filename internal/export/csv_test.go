package export

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/gesture_grid/internal/sample"
)

func TestExportHeaderAndFills(t *testing.T) {
	dir := t.TempDir()
	e := &CSVExporter{Dir: dir}

	at := time.Date(2026, 8, 26, 10, 0, 0, 500000000, time.UTC)
	full := sample.Sample{
		At: at,
		Ax: 0.25, Ay: -0.5, Az: 1,
		Rx: 1.5, Ry: 0, Rz: -3,
		HasMotion:    true,
		HeartRate:    72,
		HasHeartRate: true,
		Code:         "TR",
	}
	noHeart := sample.Sample{
		At: at.Add(20 * time.Millisecond),
		Ax: 0.1, Ay: 0.2, Az: 0.98,
		Rx: 0.5, Ry: 0.5, Rz: 0.5,
		HasMotion: true,
	}

	require.NoError(t, e.Export([]sample.Sample{full, noHeart}, "2x2"))

	raw, err := os.ReadFile(e.Path("2x2"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "timestamp,accel_x,accel_y,accel_z,rot_x,rot_y,rot_z,heart_rate,gesture", lines[0])
	assert.Equal(t, "2026-08-26T10:00:00.5Z,0.25,-0.5,1,1.5,0,-3,72,TR", lines[1])
	assert.Equal(t, "2026-08-26T10:00:00.52Z,0.1,0.2,0.98,0.5,0.5,0.5,0,N/A", lines[2])
}

func TestExportTimestampRoundTrips(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 678901234, time.UTC)
	row := Row(sample.Sample{At: at, HasMotion: true})

	parsed, err := time.Parse(time.RFC3339Nano, row[0])
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestExportHeartRateOnlyRowZeroFillsMotion(t *testing.T) {
	row := Row(sample.Sample{
		At:           time.Now(),
		HeartRate:    64,
		HasHeartRate: true,
		Code:         "C",
	})
	assert.Equal(t, []string{"0", "0", "0", "0", "0", "0"}, row[1:7])
	assert.Equal(t, "64", row[7])
	assert.Equal(t, "C", row[8])
}

func TestExportOverwritesWholeFile(t *testing.T) {
	dir := t.TempDir()
	e := &CSVExporter{Dir: dir}

	many := make([]sample.Sample, 10)
	for i := range many {
		many[i] = sample.Sample{At: time.Now(), HasMotion: true}
	}
	require.NoError(t, e.Export(many, "1x2"))
	require.NoError(t, e.Export(many[:1], "1x2"))

	raw, err := os.ReadFile(e.Path("1x2"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	assert.Len(t, lines, 2, "second export must fully replace the first")
}

func TestExportEmptyBufferWritesHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	e := &CSVExporter{Dir: dir}
	require.NoError(t, e.Export(nil, "3x3"))

	raw, err := os.ReadFile(e.Path("3x3"))
	require.NoError(t, err)
	assert.Equal(t, "timestamp,accel_x,accel_y,accel_z,rot_x,rot_y,rot_z,heart_rate,gesture\n", string(raw))
}

func TestExportFailsOnMissingDir(t *testing.T) {
	e := &CSVExporter{Dir: "/nonexistent/gesture_grid_test"}
	err := e.Export(nil, "1x2")
	assert.Error(t, err)
}
