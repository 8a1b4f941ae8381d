package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger. Useful during
// development to watch bus traffic on the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter writing to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.BridgeAddr != "" {
		attrs = append(attrs, slog.String("bridge_addr", event.BridgeAddr))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.String("frame", hex.EncodeToString(event.Frame.Data)),
		)
	case event.Message != nil:
		attrs = append(attrs,
			slog.Uint64("src", uint64(event.Message.Source)),
			slog.Uint64("dst", uint64(event.Message.Destination)),
			slog.String("opcode", opcodeAttr(event.Message.Opcode)),
		)
		if len(event.Message.Params) > 0 {
			attrs = append(attrs, slog.String("params", hex.EncodeToString(event.Message.Params)))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Name != "" {
			attrs = append(attrs, slog.String("name", event.StateChange.Name))
		}
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "cec", attrs...)
}

func opcodeAttr(op uint8) string {
	return "0x" + hex.EncodeToString([]byte{op})
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
