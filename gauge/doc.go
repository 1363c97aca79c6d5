// Package gauge models one optical-grating measurement channel: its two
// register sources on the bus, the decoding of raw registers into published
// parameters, a bounded sample history, and last-sample alarm checks.
//
// A Channel owns no bus of its own; it borrows the shared modbus.Transport
// for raw reads and an injected spc.Engine for capability math, so the
// specification limits have a single source of truth.
//
// # Parameters
//
// The published parameter set is closed: P1, P5U, P5L, P3 and P4, each with
// an average and a range value per sample. How raw registers map onto these
// parameters is described by a DecodeProfile; see the package-level
// LegacyProfile for the historical layout.
package gauge
