package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cec-protocol/cec-go/pkg/cec"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 1

	// MaxFrameSize is the maximum frame payload size. CEC frames are
	// at most 16 bytes.
	MaxFrameSize = cec.MaxFrameSize

	// MinFrameSize is the minimum valid frame payload size: header
	// byte plus opcode.
	MinFrameSize = 2
)

// Framing errors.
var (
	// ErrFrameTooLarge indicates a frame exceeding MaxFrameSize.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrFrameTooSmall indicates a frame below MinFrameSize.
	ErrFrameTooSmall = errors.New("frame too small")
)

// FrameWriter writes length-prefixed CEC frames to an underlying
// writer. Safe for concurrent use.
type FrameWriter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewFrameWriter creates a FrameWriter over w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame writes one frame as a length byte followed by the frame
// bytes.
func (fw *FrameWriter) WriteFrame(frame []byte) error {
	if len(frame) < MinFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooSmall, len(frame))
	}
	if len(frame) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(frame))
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	record := make([]byte, 0, LengthPrefixSize+len(frame))
	record = append(record, byte(len(frame)))
	record = append(record, frame...)
	_, err := fw.w.Write(record)
	return err
}

// FrameReader reads length-prefixed CEC frames from an underlying
// reader. Not safe for concurrent use; the bridge client owns a single
// read loop.
type FrameReader struct {
	r   io.Reader
	buf [MaxFrameSize]byte
}

// NewFrameReader creates a FrameReader over r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// ReadFrame reads the next frame. The returned slice is a copy and
// remains valid after subsequent reads.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(fr.r, prefix[:]); err != nil {
		return nil, err
	}

	size := int(prefix[0])
	if size < MinFrameSize || size > MaxFrameSize {
		// Discard the payload so the stream stays aligned and the
		// caller can keep reading subsequent records.
		if _, err := io.CopyN(io.Discard, fr.r, int64(size)); err != nil {
			return nil, err
		}
		if size < MinFrameSize {
			return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooSmall, size)
		}
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	if _, err := io.ReadFull(fr.r, fr.buf[:size]); err != nil {
		return nil, err
	}

	frame := make([]byte, size)
	copy(frame, fr.buf[:size])
	return frame, nil
}
