package sample

import "time"

// Buffer accumulates samples for the trials of one grid shape, in arrival
// order. It is owned by the sequencer loop and is not safe for concurrent
// use; producers must hand their readings off to that loop first.
type Buffer struct {
	samples []Sample
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds one sample, preserving arrival order.
func (b *Buffer) Append(s Sample) {
	b.samples = append(b.samples, s)
}

func (b *Buffer) Len() int {
	return len(b.samples)
}

// DrainAll returns every buffered sample in order and empties the buffer.
// The returned slice is handed off: the buffer keeps no reference to it.
func (b *Buffer) DrainAll() []Sample {
	out := b.samples
	b.samples = nil
	return out
}

// AttachHeartRate merges a heart-rate reading into the buffer. The reading
// is attached to the nearest sample by timestamp that does not yet carry a
// heart rate, as long as that sample is within tolerance. Otherwise it is
// appended as a new heart-rate-only sample tagged with code.
func (b *Buffer) AttachHeartRate(h Heart, tolerance time.Duration, code string) {
	best := -1
	var bestDist time.Duration
	for i := len(b.samples) - 1; i >= 0; i-- {
		s := b.samples[i]
		d := s.At.Sub(h.At)
		if d < 0 {
			d = -d
		}
		if d > tolerance {
			if s.At.Before(h.At) {
				// Samples arrive time-ordered; everything older is
				// even further from the reading.
				break
			}
			continue
		}
		if s.HasHeartRate {
			continue
		}
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best >= 0 {
		b.samples[best].HeartRate = h.BPM
		b.samples[best].HasHeartRate = true
		return
	}
	b.Append(Sample{
		At:           h.At,
		HeartRate:    h.BPM,
		HasHeartRate: true,
		Code:         code,
	})
}
