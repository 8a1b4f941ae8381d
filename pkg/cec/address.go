package cec

import "fmt"

// LogicalAddress identifies a device's role on the CEC bus.
// Valid addresses occupy 4 bits (0-15). Address 15 doubles as the
// unregistered source and the broadcast destination.
type LogicalAddress uint8

// Logical addresses defined by the CEC specification.
const (
	AddrTV          LogicalAddress = 0
	AddrRecorder1   LogicalAddress = 1
	AddrRecorder2   LogicalAddress = 2
	AddrTuner1      LogicalAddress = 3
	AddrPlayback1   LogicalAddress = 4
	AddrAudioSystem LogicalAddress = 5
	AddrTuner2      LogicalAddress = 6
	AddrTuner3      LogicalAddress = 7
	AddrPlayback2   LogicalAddress = 8
	AddrRecorder3   LogicalAddress = 9
	AddrTuner4      LogicalAddress = 10
	AddrPlayback3   LogicalAddress = 11
	AddrReserved1   LogicalAddress = 12
	AddrReserved2   LogicalAddress = 13
	AddrFreeUse     LogicalAddress = 14

	// AddrUnregistered is used as a source by devices that hold no
	// allocated address.
	AddrUnregistered LogicalAddress = 15

	// AddrBroadcast is the reserved destination sentinel. It shares
	// the value 15 with AddrUnregistered; the meaning depends on
	// whether the address is used as source or destination.
	AddrBroadcast LogicalAddress = 15
)

// IsValid reports whether the address fits in the 4-bit range.
func (a LogicalAddress) IsValid() bool {
	return a <= AddrBroadcast
}

// IsBroadcast reports whether the address is the broadcast sentinel.
// Only meaningful for destination addresses.
func (a LogicalAddress) IsBroadcast() bool {
	return a == AddrBroadcast
}

// String returns a human-readable address name.
func (a LogicalAddress) String() string {
	switch a {
	case AddrTV:
		return "TV"
	case AddrRecorder1:
		return "RECORDER_1"
	case AddrRecorder2:
		return "RECORDER_2"
	case AddrTuner1:
		return "TUNER_1"
	case AddrPlayback1:
		return "PLAYBACK_1"
	case AddrAudioSystem:
		return "AUDIO_SYSTEM"
	case AddrTuner2:
		return "TUNER_2"
	case AddrTuner3:
		return "TUNER_3"
	case AddrPlayback2:
		return "PLAYBACK_2"
	case AddrRecorder3:
		return "RECORDER_3"
	case AddrTuner4:
		return "TUNER_4"
	case AddrPlayback3:
		return "PLAYBACK_3"
	case AddrReserved1:
		return "RESERVED_1"
	case AddrReserved2:
		return "RESERVED_2"
	case AddrFreeUse:
		return "FREE_USE"
	case AddrBroadcast:
		return "BROADCAST"
	default:
		return fmt.Sprintf("INVALID(%d)", uint8(a))
	}
}

// PhysicalAddress is the 16-bit position of a device in the HDMI
// topology, four 4-bit digits from the root downwards.
type PhysicalAddress uint16

// PhysicalAddrInvalid marks an unknown or unassigned physical address.
const PhysicalAddrInvalid PhysicalAddress = 0xFFFF

// String formats the address in the usual dotted form, e.g. "1.2.0.0".
func (p PhysicalAddress) String() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		(p>>12)&0xF, (p>>8)&0xF, (p>>4)&0xF, p&0xF)
}
