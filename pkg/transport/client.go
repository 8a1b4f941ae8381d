package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cec-protocol/cec-go/pkg/cec"
)

// Client errors.
var (
	// ErrClosed indicates an operation on a closed connection.
	ErrClosed = errors.New("bridge connection closed")
)

// DefaultConnectTimeout bounds the bridge dial when the caller's
// context carries no deadline.
const DefaultConnectTimeout = 10 * time.Second

// MessageHandler receives every decoded message arriving from the
// bridge. It is called from the connection's read goroutine.
type MessageHandler func(msg *cec.Message)

// ErrorHandler is notified when the read loop stops. The error is nil
// after a local Close, io.EOF when the bridge hung up, and the
// underlying error otherwise.
type ErrorHandler func(err error)

// Client dials CEC bridges.
type Client struct {
	connectTimeout time.Duration
}

// NewClient creates a bridge client with default settings.
func NewClient() *Client {
	return &Client{connectTimeout: DefaultConnectTimeout}
}

// SetConnectTimeout overrides the dial timeout.
func (c *Client) SetConnectTimeout(d time.Duration) {
	c.connectTimeout = d
}

// Connect establishes a TCP connection to the bridge at address.
func (c *Client) Connect(ctx context.Context, address string) (*Conn, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	netConn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial bridge: %w", err)
	}
	return NewConn(netConn), nil
}

// Conn is one established bridge connection. Writes may come from any
// goroutine; reads happen on the single loop started by ReadLoop.
type Conn struct {
	conn   net.Conn
	writer *FrameWriter
	reader *FrameReader

	closeOnce sync.Once
	closed    chan struct{}
}

// NewConn wraps an established stream in the bridge framing. Exposed
// so tests can drive a Conn over net.Pipe.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn:   conn,
		writer: NewFrameWriter(conn),
		reader: NewFrameReader(conn),
		closed: make(chan struct{}),
	}
}

// RemoteAddr returns the bridge's address.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Transmit encodes the message and writes it to the bridge.
func (c *Conn) Transmit(msg *cec.Message) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	frame, err := cec.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return c.writer.WriteFrame(frame)
}

// ReadLoop reads frames until the connection fails or is closed,
// decoding each and passing it to handler. Malformed frames are
// reported through onError but do not stop the loop; a transport-level
// failure stops it. ReadLoop blocks and is normally run on its own
// goroutine.
func (c *Conn) ReadLoop(handler MessageHandler, onError ErrorHandler) {
	for {
		frame, err := c.reader.ReadFrame()
		if err != nil {
			if errors.Is(err, ErrFrameTooLarge) || errors.Is(err, ErrFrameTooSmall) {
				// Bad record, but the reader discarded it and the
				// stream is still aligned; keep reading.
				if onError != nil {
					onError(err)
				}
				continue
			}
			select {
			case <-c.closed:
				err = nil
			default:
			}
			if onError != nil {
				onError(err)
			}
			return
		}

		msg, err := cec.Unmarshal(frame)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			continue
		}
		handler(msg)
	}
}

// Close shuts the connection down. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}
