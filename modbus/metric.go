package modbus

import "sync/atomic"

// TransportMetrics contains atomic counters for a Transport.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type TransportMetrics struct {
	// RequestCount indicates the number of request frames written to the bus.
	RequestCount atomic.Uint64
	// ResponseCount indicates the number of responses that validated and decoded.
	ResponseCount atomic.Uint64
	// ValidationErrCount indicates the number of responses rejected during
	// validation (short frame, bad echo, byte count, CRC, exception).
	ValidationErrCount atomic.Uint64
	// IOErrCount indicates the number of serial read/write failures.
	IOErrCount atomic.Uint64
	// SimulatedReadCount indicates the number of reads served from the
	// disconnected-fallback ramp generator.
	SimulatedReadCount atomic.Uint64
}

func (m *TransportMetrics) incRequestCount()       { m.RequestCount.Add(1) }
func (m *TransportMetrics) incResponseCount()      { m.ResponseCount.Add(1) }
func (m *TransportMetrics) incValidationErrCount() { m.ValidationErrCount.Add(1) }
func (m *TransportMetrics) incIOErrCount()         { m.IOErrCount.Add(1) }
func (m *TransportMetrics) incSimulatedReadCount() { m.SimulatedReadCount.Add(1) }
