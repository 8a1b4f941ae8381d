package cec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUICommandParam(t *testing.T) {
	assert.Equal(t, []byte{0x6D}, UICommandParam(UICmdPowerOn))
	assert.Equal(t, []byte{0x00}, UICommandParam(UICmdSelect))
}

func TestPhysicalAddressParam(t *testing.T) {
	assert.Equal(t, []byte{0x12, 0x34}, PhysicalAddressParam(0x1234))
	assert.Equal(t, []byte{0x00, 0x00}, PhysicalAddressParam(0))
	assert.Equal(t, []byte{0xFF, 0xFF}, PhysicalAddressParam(PhysicalAddrInvalid))
}

func TestPathPairParam(t *testing.T) {
	assert.Equal(t, []byte{0x10, 0x00, 0x20, 0x00}, PathPairParam(0x1000, 0x2000))
	assert.Equal(t, []byte{0x00, 0x00, 0xFF, 0xFF}, PathPairParam(0, 0xFFFF))
}
