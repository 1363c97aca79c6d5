package acquire

import "sync/atomic"

// RunState represents the orchestrator lifecycle: Idle → Running → Idle.
type RunState uint32

const (
	// IdleState indicates no polling worker is running.
	IdleState RunState = iota
	// RunningState indicates the polling worker is active.
	RunningState
	// StoppingState indicates Stop is waiting for the worker to exit.
	StoppingState
)

func (s RunState) String() string {
	switch s {
	case IdleState:
		return "idle"
	case RunningState:
		return "running"
	case StoppingState:
		return "stopping"
	default:
		return "unknown"
	}
}

// atomicRunState tracks the run state with lock-free transitions.
type atomicRunState struct {
	state atomic.Uint32
}

// Get returns the current run state.
func (st *atomicRunState) Get() RunState {
	return RunState(st.state.Load())
}

// Set unconditionally sets the run state.
func (st *atomicRunState) Set(state RunState) {
	st.state.Store(uint32(state))
}

// ToRunning transitions Idle → Running. Returns false when not idle.
func (st *atomicRunState) ToRunning() bool {
	return st.state.CompareAndSwap(uint32(IdleState), uint32(RunningState))
}

// ToStopping transitions Running → Stopping. Returns false when not running.
func (st *atomicRunState) ToStopping() bool {
	return st.state.CompareAndSwap(uint32(RunningState), uint32(StoppingState))
}
