package modbus

import "sync/atomic"

// LinkState represents the physical link lifecycle of a Transport.
type LinkState uint32

const (
	// LinkClosed indicates the serial port is not open; reads are simulated.
	LinkClosed LinkState = iota
	// LinkOpening indicates an Open is in progress.
	LinkOpening
	// LinkOpened indicates the serial port is open and reads hit the bus.
	LinkOpened
)

func (s LinkState) String() string {
	switch s {
	case LinkClosed:
		return "closed"
	case LinkOpening:
		return "opening"
	case LinkOpened:
		return "opened"
	default:
		return "unknown"
	}
}

// atomicLinkState tracks the link state with lock-free transitions.
type atomicLinkState struct {
	state atomic.Uint32
}

// Get returns the current link state.
func (st *atomicLinkState) Get() LinkState {
	return LinkState(st.state.Load())
}

// Set unconditionally sets the link state.
func (st *atomicLinkState) Set(state LinkState) {
	st.state.Store(uint32(state))
}

func (st *atomicLinkState) IsOpened() bool {
	return st.Get() == LinkOpened
}

// ToOpening transitions Closed → Opening. Returns false if the link is not closed.
func (st *atomicLinkState) ToOpening() bool {
	return st.state.CompareAndSwap(uint32(LinkClosed), uint32(LinkOpening))
}

// ToOpened transitions Opening → Opened.
func (st *atomicLinkState) ToOpened() bool {
	return st.state.CompareAndSwap(uint32(LinkOpening), uint32(LinkOpened))
}
