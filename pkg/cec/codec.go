package cec

import (
	"errors"
	"fmt"
)

// Codec errors.
var (
	// ErrFrameTooShort indicates a frame without a complete header and
	// opcode. Header-only polling frames are a bus-arbitration concern
	// and are not modeled here.
	ErrFrameTooShort = errors.New("frame too short")

	// ErrFrameTooLarge indicates a frame exceeding MaxFrameSize.
	ErrFrameTooLarge = errors.New("frame too large")
)

// Marshal encodes a message into its frame form: one header byte with
// the source in the high nibble and the destination in the low nibble,
// the opcode byte, then the parameter bytes.
func Marshal(m *Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 2+len(m.Params))
	buf = append(buf, byte(m.Source&0xF)<<4|byte(m.Destination&0xF))
	buf = append(buf, byte(m.Opcode))
	buf = append(buf, m.Params...)
	return buf, nil
}

// Unmarshal decodes a frame into a Message.
func Unmarshal(frame []byte) (*Message, error) {
	if len(frame) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(frame))
	}
	if len(frame) > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(frame))
	}
	return New(
		LogicalAddress(frame[0]>>4),
		LogicalAddress(frame[0]&0xF),
		Opcode(frame[1]),
		frame[2:]...,
	), nil
}
