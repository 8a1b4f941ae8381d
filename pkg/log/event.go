package log

import (
	"time"

	"github.com/cec-protocol/cec-go/pkg/cec"
)

// Event is one protocol log record. CBOR encoding uses integer keys
// for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the control-service session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction of the traffic, for message and frame events.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// BridgeAddr is the bridge peer address, when connected.
	BridgeAddr string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload; exactly one of these is set.
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Direction indicates traffic direction.
type Direction uint8

const (
	// DirectionIn indicates traffic arriving from the bus.
	DirectionIn Direction = 0
	// DirectionOut indicates traffic transmitted onto the bus.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the bridge framing layer (raw bytes).
	LayerTransport Layer = 0
	// LayerBus is the decoded CEC message layer.
	LayerBus Layer = 1
	// LayerAction is the feature-action framework layer.
	LayerAction Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerBus:
		return "BUS"
	case LayerAction:
		return "ACTION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a CEC message or raw frame.
	CategoryMessage Category = 0
	// CategoryState indicates an action or connection state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame bytes at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame. CEC frames are at most 16 bytes, so no
	// truncation is needed.
	Data []byte `cbor:"2,keyasint,omitempty"`
}

// MessageEvent captures a decoded CEC message.
type MessageEvent struct {
	// Source is the sender's logical address.
	Source uint8 `cbor:"1,keyasint"`

	// Destination is the target logical address (15 = broadcast).
	Destination uint8 `cbor:"2,keyasint"`

	// Opcode is the operation code.
	Opcode uint8 `cbor:"3,keyasint"`

	// Params holds the operand bytes, if any.
	Params []byte `cbor:"4,keyasint,omitempty"`
}

// NewMessageEvent builds a MessageEvent from a decoded message.
func NewMessageEvent(m *cec.Message) *MessageEvent {
	return &MessageEvent{
		Source:      uint8(m.Source),
		Destination: uint8(m.Destination),
		Opcode:      uint8(m.Opcode),
		Params:      m.Params,
	}
}

// StateChangeEvent captures action and connection lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// Name identifies the entity instance, e.g. the action type.
	Name string `cbor:"2,keyasint,omitempty"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"3,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"4,keyasint"`

	// Reason for the change, if available.
	Reason string `cbor:"5,keyasint,omitempty"`
}

// StateEntity indicates what kind of entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a bridge connection change.
	StateEntityConnection StateEntity = 0
	// StateEntityAction indicates a feature-action lifecycle change.
	StateEntityAction StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityAction:
		return "ACTION"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`

	// Context describes what was being done.
	Context string `cbor:"3,keyasint,omitempty"`
}
