// Package version provides CEC protocol version codes and helpers.
package version

import (
	"fmt"
	"strings"
)

// Library is the version of this library.
const Library = "0.1.0"

// Version is a CEC protocol version code as carried on the wire by
// the version-report message.
type Version uint8

// Protocol versions with their wire codes.
const (
	Version13a Version = 0x04
	Version14  Version = 0x05
	Version20  Version = 0x06
)

// Current is the protocol version implemented by this library.
const Current = Version14

// String returns the human-readable version, or a hex form for codes
// outside the supported table.
func (v Version) String() string {
	switch v {
	case Version13a:
		return "1.3a"
	case Version14:
		return "1.4"
	case Version20:
		return "2.0"
	default:
		return fmt.Sprintf("0x%02X", uint8(v))
	}
}

// Parse parses a human-readable version string back into its wire
// code.
func Parse(s string) (Version, error) {
	switch strings.ToLower(s) {
	case "1.3a":
		return Version13a, nil
	case "1.4":
		return Version14, nil
	case "2.0":
		return Version20, nil
	default:
		return 0, fmt.Errorf("unknown CEC version: %q", s)
	}
}

// Compatible reports whether a peer at the other version can be
// driven by this library. Versions are backwards compatible from 1.3a
// upwards.
func (v Version) Compatible(other Version) bool {
	return other >= Version13a && other <= v
}
