package cec

// Parameter builders for common operand shapes. These are pure
// functions producing exact-width encodings.
//
// The builders do not validate their inputs: a value wider than the
// encoded field is truncated through the byte casts, matching what
// existing peers on the bus expect. Callers are responsible for
// passing values that fit.

// UICommandParam encodes a single-byte UI command operand.
func UICommandParam(cmd UICommand) []byte {
	return []byte{byte(cmd)}
}

// PhysicalAddressParam encodes a physical address as 2 bytes,
// big-endian.
func PhysicalAddressParam(addr PhysicalAddress) []byte {
	return []byte{
		byte((addr >> 8) & 0xFF),
		byte(addr & 0xFF),
	}
}

// PathPairParam encodes two physical-address paths as 4 bytes, the old
// path followed by the new path, each big-endian.
func PathPairParam(oldPath, newPath PhysicalAddress) []byte {
	return []byte{
		byte((oldPath >> 8) & 0xFF), byte(oldPath & 0xFF),
		byte((newPath >> 8) & 0xFF), byte(newPath & 0xFF),
	}
}
