// Package modbus implements the request/response serial transport used to
// read optical-grating gauge heads over an RS-485 bus.
//
// The transport speaks a single primitive: Modbus RTU function 0x03
// (Read Holding Registers). A request frame is
//
//	[slaveAddr][0x03][startHi][startLo][countHi][countLo][crcLo][crcHi]
//
// where the CRC is the standard reflected CRC-16 with polynomial 0xA001 and
// initial value 0xFFFF, computed over all preceding bytes and appended
// little-endian. Registers in the response payload are decoded as big-endian
// uint16 values.
//
// # Bus discipline
//
// The bus has a single master and at most one outstanding request at a time.
// Transport serializes all reads internally; callers may share one Transport
// across every configured channel.
//
// # Degraded operation
//
// Transport is designed to never fail hard. A link that cannot be opened
// leaves the transport in a disconnected state in which ReadRegisters
// produces a deterministic simulated ramp per register index, so the
// acquisition pipeline keeps running on a bench without a live device.
// A malformed, short, or checksum-broken response yields a nil register
// slice, which callers treat as "no data this cycle".
package modbus
