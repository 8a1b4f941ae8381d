// Package transport connects the control service to a CEC bridge, a
// device that relays frames between a TCP stream and the physical bus.
//
// The bridge protocol is minimal: each CEC frame is sent as a single
// length-prefixed record (one length byte, then 1..16 frame bytes).
// Bit-level bus timing, arbitration and acknowledgement stay on the
// bridge side and are not modeled here.
package transport
