// Package spc computes process-capability statistics for gauged parameters
// against a configurable specification-limit table.
//
// The Engine is pure per call: every Compute derives its result from the
// supplied sample window, never from incrementally maintained state. A small
// snapshot cache keyed by (channel, parameter) holds the most recent result
// of Update for cheap retrieval by reporting front ends.
//
// Capability indices follow the usual definitions: Cp relates the spec width
// to process spread, Cpk additionally accounts for process centering. Both
// are reported as 0 whenever they are undefined: fewer than two samples,
// zero standard deviation, or a degenerate limit table with USL == LSL.
// Looking up limits for an unknown parameter returns USL == LSL == 0 on
// purpose, so capability on untracked parameters is always 0 rather than a
// misleading number.
package spc
