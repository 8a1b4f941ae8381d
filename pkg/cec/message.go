package cec

import (
	"errors"
	"fmt"
	"strings"
)

// Frame size limits. A CEC frame is the header block (source and
// destination nibbles), the opcode, and at most MaxParams operand
// bytes.
const (
	// MaxFrameSize is the maximum encoded frame size in bytes.
	MaxFrameSize = 16

	// MaxParams is the maximum number of parameter bytes a message
	// can carry.
	MaxParams = MaxFrameSize - 2
)

// Message errors.
var (
	// ErrInvalidAddress indicates a source or destination outside the
	// 4-bit logical-address range.
	ErrInvalidAddress = errors.New("invalid logical address")

	// ErrTooManyParams indicates a parameter block exceeding MaxParams.
	ErrTooManyParams = errors.New("too many parameter bytes")
)

// Message is one addressed, opcode-tagged command unit exchanged over
// the bus. Messages are immutable values: constructors copy the
// parameter bytes, and holders must not modify Params.
type Message struct {
	// Source is the logical address the message is sent as.
	Source LogicalAddress

	// Destination is the target logical address, or AddrBroadcast.
	Destination LogicalAddress

	// Opcode identifies the operation.
	Opcode Opcode

	// Params holds the operand bytes, possibly empty.
	Params []byte
}

// New constructs a Message. Passing no parameter bytes is equivalent
// to passing an empty parameter block.
func New(src, dst LogicalAddress, opcode Opcode, params ...byte) *Message {
	p := make([]byte, len(params))
	copy(p, params)
	return &Message{
		Source:      src,
		Destination: dst,
		Opcode:      opcode,
		Params:      p,
	}
}

// NewBroadcast constructs a Message addressed to AddrBroadcast.
func NewBroadcast(src LogicalAddress, opcode Opcode, params ...byte) *Message {
	return New(src, AddrBroadcast, opcode, params...)
}

// Validate checks the message against the frame invariants.
func (m *Message) Validate() error {
	if !m.Source.IsValid() {
		return fmt.Errorf("%w: source %d", ErrInvalidAddress, m.Source)
	}
	if !m.Destination.IsValid() {
		return fmt.Errorf("%w: destination %d", ErrInvalidAddress, m.Destination)
	}
	if len(m.Params) > MaxParams {
		return fmt.Errorf("%w: %d > %d", ErrTooManyParams, len(m.Params), MaxParams)
	}
	return nil
}

// IsBroadcast reports whether the message is addressed to all devices.
func (m *Message) IsBroadcast() bool {
	return m.Destination.IsBroadcast()
}

// String formats the message for logs, e.g.
// "PLAYBACK_1 -> TV GIVE_DEVICE_POWER_STATUS" with parameter bytes in
// hex when present.
func (m *Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -> %s %s", m.Source, m.Destination, m.Opcode)
	for _, p := range m.Params {
		fmt.Fprintf(&b, ":%02X", p)
	}
	return b.String()
}
