package modbus

import "errors"

var (
	// ErrShortResponse indicates the response frame is shorter than the
	// minimum 5 bytes (addr + function + byte count + 2 CRC bytes).
	ErrShortResponse = errors.New("modbus: response too short")

	// ErrSlaveMismatch indicates the responding slave address does not echo
	// the requested one.
	ErrSlaveMismatch = errors.New("modbus: slave address mismatch")

	// ErrFunctionMismatch indicates the response function code does not echo 0x03.
	ErrFunctionMismatch = errors.New("modbus: function code mismatch")

	// ErrException indicates the slave returned a Modbus exception frame
	// (function code with the high bit set).
	ErrException = errors.New("modbus: exception response")

	// ErrByteCount indicates the declared byte count is inconsistent with
	// the requested register count or the frame length.
	ErrByteCount = errors.New("modbus: byte count mismatch")

	// ErrCRCMismatch indicates the response checksum does not match.
	ErrCRCMismatch = errors.New("modbus: CRC mismatch")
)
