package modbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16_KnownVector(t *testing.T) {
	// Standard Modbus CRC-16 of a function 0x03 request for 2 registers
	// starting at 0x0014 on slave 1.
	data := []byte{0x01, 0x03, 0x00, 0x14, 0x00, 0x02}
	assert.Equal(t, uint16(0x0F84), CRC16(data))
}

func TestCRC16_Empty(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), CRC16(nil))
}

func TestCRC16_SingleByte(t *testing.T) {
	// Any change to a byte must change the checksum.
	assert.NotEqual(t, CRC16([]byte{0x01}), CRC16([]byte{0x02}))
}
