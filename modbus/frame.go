package modbus

import (
	"encoding/binary"
	"fmt"
)

// Function code for Read Holding Registers, the only primitive this
// transport speaks.
const funcReadHolding byte = 0x03

// minResponseLength is addr + function + byte count + 2 CRC bytes.
const minResponseLength = 5

// readRequest builds a function 0x03 request frame for count registers
// starting at start, addressed to slave. The CRC is appended little-endian.
func readRequest(slave byte, start, count uint16) []byte {
	frame := make([]byte, 0, 8)
	frame = append(frame, slave, funcReadHolding,
		byte(start>>8), byte(start),
		byte(count>>8), byte(count),
	)
	crc := CRC16(frame)
	frame = append(frame, byte(crc), byte(crc>>8))

	return frame
}

// parseReadResponse validates a function 0x03 response frame and decodes its
// register payload.
//
// Validation covers: minimum length, slave address echo, exception frames,
// function code echo, byte count consistency with the requested register
// count, and the trailing CRC. Registers are decoded big-endian.
func parseReadResponse(frame []byte, slave byte, count uint16) ([]uint16, error) {
	if len(frame) < minResponseLength {
		return nil, fmt.Errorf("%w: got %d bytes, want >= %d", ErrShortResponse, len(frame), minResponseLength)
	}

	if frame[0] != slave {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrSlaveMismatch, frame[0], slave)
	}

	if frame[1]&0x80 != 0 {
		return nil, fmt.Errorf("%w: exception code 0x%02X", ErrException, frame[2])
	}

	if frame[1] != funcReadHolding {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrFunctionMismatch, frame[1], funcReadHolding)
	}

	byteCount := int(frame[2])
	if byteCount != int(count)*2 {
		return nil, fmt.Errorf("%w: declared %d bytes for %d registers", ErrByteCount, byteCount, count)
	}
	if len(frame) < 3+byteCount+2 {
		return nil, fmt.Errorf("%w: frame %d bytes, payload needs %d", ErrByteCount, len(frame), 3+byteCount+2)
	}

	want := CRC16(frame[:3+byteCount])
	got := binary.LittleEndian.Uint16(frame[3+byteCount:])
	if got != want {
		return nil, fmt.Errorf("%w: got 0x%04X, want 0x%04X", ErrCRCMismatch, got, want)
	}

	regs := make([]uint16, count)
	for i := range regs {
		regs[i] = binary.BigEndian.Uint16(frame[3+i*2:])
	}

	return regs, nil
}
