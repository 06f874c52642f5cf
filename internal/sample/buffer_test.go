package sample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func motionAt(at time.Time) Motion {
	return Motion{At: at, Ax: 0.1, Ay: 0.2, Az: 0.98}
}

func TestBufferPreservesOrderAndEmptiesOnDrain(t *testing.T) {
	b := NewBuffer()
	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		s := FromMotion(motionAt(base.Add(time.Duration(i)*20*time.Millisecond)), "TL")
		s.Ax = float64(i)
		b.Append(s)
	}
	require.Equal(t, 50, b.Len())

	out := b.DrainAll()
	require.Len(t, out, 50)
	for i, s := range out {
		assert.Equal(t, float64(i), s.Ax, "arrival order must be preserved")
	}
	assert.Zero(t, b.Len(), "buffer must be empty after drain")
	assert.Empty(t, b.DrainAll())
}

func TestDrainHandsOffSamples(t *testing.T) {
	b := NewBuffer()
	b.Append(Sample{Code: "L"})
	out := b.DrainAll()

	// A sample appended after the drain must not show up in the
	// previously returned slice.
	b.Append(Sample{Code: "R"})
	require.Len(t, out, 1)
	assert.Equal(t, "L", out[0].Code)
	assert.Equal(t, 1, b.Len())
}

func TestAttachHeartRateNearestMatch(t *testing.T) {
	b := NewBuffer()
	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		b.Append(FromMotion(motionAt(base.Add(time.Duration(i)*100*time.Millisecond)), "TR"))
	}

	// 230 ms is nearest to the sample at 200 ms.
	b.AttachHeartRate(Heart{At: base.Add(230 * time.Millisecond), BPM: 72}, 250*time.Millisecond, "TR")

	require.Equal(t, 5, b.Len(), "a matched reading must not grow the buffer")
	out := b.DrainAll()
	for i, s := range out {
		if i == 2 {
			assert.True(t, s.HasHeartRate)
			assert.Equal(t, 72.0, s.HeartRate)
		} else {
			assert.False(t, s.HasHeartRate, "sample %d", i)
		}
	}
}

func TestAttachHeartRateOutsideToleranceAppendsPartial(t *testing.T) {
	b := NewBuffer()
	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	b.Append(FromMotion(motionAt(base), "BL"))

	b.AttachHeartRate(Heart{At: base.Add(2 * time.Second), BPM: 65}, 250*time.Millisecond, "BL")

	out := b.DrainAll()
	require.Len(t, out, 2)
	last := out[1]
	assert.True(t, last.HasHeartRate)
	assert.False(t, last.HasMotion)
	assert.Equal(t, 65.0, last.HeartRate)
	assert.Equal(t, "BL", last.Code)
}

func TestAttachHeartRateIntoEmptyBuffer(t *testing.T) {
	b := NewBuffer()
	b.AttachHeartRate(Heart{At: time.Now(), BPM: 80}, 250*time.Millisecond, "N/A")
	out := b.DrainAll()
	require.Len(t, out, 1)
	assert.True(t, out[0].HasHeartRate)
	assert.False(t, out[0].HasMotion)
}

func TestAttachHeartRateSkipsAlreadyMatchedSamples(t *testing.T) {
	b := NewBuffer()
	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	b.Append(FromMotion(motionAt(base), "C"))
	b.Append(FromMotion(motionAt(base.Add(50*time.Millisecond)), "C"))

	b.AttachHeartRate(Heart{At: base, BPM: 70}, 250*time.Millisecond, "C")
	b.AttachHeartRate(Heart{At: base, BPM: 71}, 250*time.Millisecond, "C")

	out := b.DrainAll()
	require.Len(t, out, 2)
	assert.Equal(t, 70.0, out[0].HeartRate)
	assert.Equal(t, 71.0, out[1].HeartRate, "second reading must fall through to the next unmatched sample")
}
