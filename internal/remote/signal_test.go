package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRun(t *testing.T) {
	t.Run("valid payloads", func(t *testing.T) {
		v, ok := DecodeRun([]byte(`{"isRunning":true}`))
		require.True(t, ok)
		assert.True(t, v)

		v, ok = DecodeRun([]byte(`{"isRunning":false}`))
		require.True(t, ok)
		assert.False(t, v)
	})

	t.Run("malformed payloads are ignored", func(t *testing.T) {
		for _, payload := range []string{
			``,
			`garbage`,
			`{}`,
			`{"isRunning":"yes"}`,
			`{"running":true}`,
			`[true]`,
		} {
			_, ok := DecodeRun([]byte(payload))
			assert.False(t, ok, "payload %q must not decode", payload)
		}
	})
}

func TestEncodeRunRoundTrips(t *testing.T) {
	for _, v := range []bool{true, false} {
		got, ok := DecodeRun(EncodeRun(v))
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestPipeDelivers(t *testing.T) {
	p := NewPipe()
	var got []bool
	p.Bind(func(v bool) { got = append(got, v) })

	p.Send(true)
	p.Send(false)
	assert.Equal(t, []bool{true, false}, got)
	assert.Zero(t, p.Dropped())
}

func TestPipeDropsWhenUnreachable(t *testing.T) {
	p := NewPipe()
	var got []bool
	p.Bind(func(v bool) { got = append(got, v) })

	p.SetReachable(false)
	p.Send(true)
	assert.Empty(t, got, "send to an unreachable peer is dropped, not queued")
	assert.Equal(t, 1, p.Dropped())

	// Reconnect: only new sends arrive, nothing is replayed.
	p.SetReachable(true)
	p.Send(false)
	assert.Equal(t, []bool{false}, got)
}

func TestPipeUnboundDrops(t *testing.T) {
	p := NewPipe()
	p.Send(true)
	assert.Equal(t, 1, p.Dropped())
}
