package log

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cec-protocol/cec-go/pkg/cec"
)

func messageEvent(sessionID string, dir Direction) Event {
	msg := cec.New(cec.AddrPlayback1, cec.AddrTV, cec.OpcodeReportPowerStatus, 0x01)
	return Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: dir,
		Layer:     LayerBus,
		Category:  CategoryMessage,
		Message:   NewMessageEvent(msg),
	}
}

func TestEventRoundTrip(t *testing.T) {
	want := messageEvent("session-1", DirectionOut)
	want.BridgeAddr = "192.168.1.50:9526"

	data, err := EncodeEvent(want)
	require.NoError(t, err)

	got, err := DecodeEvent(data)
	require.NoError(t, err)

	assert.Equal(t, want.SessionID, got.SessionID)
	assert.Equal(t, want.Direction, got.Direction)
	assert.Equal(t, want.Layer, got.Layer)
	assert.Equal(t, want.BridgeAddr, got.BridgeAddr)
	require.NotNil(t, got.Message)
	assert.Equal(t, uint8(cec.AddrPlayback1), got.Message.Source)
	assert.Equal(t, uint8(cec.OpcodeReportPowerStatus), got.Message.Opcode)
	assert.Equal(t, []byte{0x01}, got.Message.Params)
	assert.WithinDuration(t, want.Timestamp, got.Timestamp, time.Microsecond)
}

func TestStateChangeEventRoundTrip(t *testing.T) {
	want := Event{
		Timestamp: time.Now(),
		SessionID: "session-1",
		Layer:     LayerAction,
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   StateEntityAction,
			Name:     "DevicePowerStatus",
			OldState: "1",
			NewState: "0",
			Reason:   "finished",
		},
	}

	data, err := EncodeEvent(want)
	require.NoError(t, err)
	got, err := DecodeEvent(data)
	require.NoError(t, err)

	require.NotNil(t, got.StateChange)
	assert.Equal(t, *want.StateChange, *got.StateChange)
}

func TestFileLoggerAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	logger.Log(messageEvent("a", DirectionOut))
	logger.Log(messageEvent("b", DirectionIn))
	logger.Log(messageEvent("a", DirectionIn))
	require.NoError(t, logger.Close())

	// Ignored after close.
	logger.Log(messageEvent("a", DirectionOut))

	t.Run("All", func(t *testing.T) {
		r, err := NewReader(path)
		require.NoError(t, err)
		defer r.Close()

		count := 0
		for {
			_, err := r.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			count++
		}
		assert.Equal(t, 3, count)
	})

	t.Run("FilterSession", func(t *testing.T) {
		r, err := NewFilteredReader(path, Filter{SessionID: "a"})
		require.NoError(t, err)
		defer r.Close()

		count := 0
		for {
			ev, err := r.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			assert.Equal(t, "a", ev.SessionID)
			count++
		}
		assert.Equal(t, 2, count)
	})

	t.Run("FilterDirection", func(t *testing.T) {
		in := DirectionIn
		r, err := NewFilteredReader(path, Filter{Direction: &in})
		require.NoError(t, err)
		defer r.Close()

		count := 0
		for {
			_, err := r.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			count++
		}
		assert.Equal(t, 2, count)
	})
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	adapter.Log(messageEvent("session-1", DirectionOut))

	out := buf.String()
	assert.Contains(t, out, "session_id=session-1")
	assert.Contains(t, out, "direction=OUT")
	assert.Contains(t, out, "layer=BUS")
	assert.Contains(t, out, "opcode=0x90")
	assert.Contains(t, out, "params=01")
}

func TestMultiLogger(t *testing.T) {
	var first, second []Event
	m := NewMultiLogger(
		loggerFunc(func(e Event) { first = append(first, e) }),
		loggerFunc(func(e Event) { second = append(second, e) }),
	)

	m.Log(messageEvent("x", DirectionIn))

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

// loggerFunc adapts a function to the Logger interface.
type loggerFunc func(Event)

func (f loggerFunc) Log(e Event) { f(e) }

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Log(messageEvent("x", DirectionIn)) // must not panic
}
