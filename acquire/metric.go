package acquire

import "sync/atomic"

// AcquisitionMetrics contains atomic counters for the polling worker.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type AcquisitionMetrics struct {
	// CycleCount indicates the number of completed poll cycles.
	CycleCount atomic.Uint64
	// SampleCount indicates the number of samples delivered to the
	// measurement callback.
	SampleCount atomic.Uint64
	// AlarmCount indicates the number of alarm messages delivered.
	AlarmCount atomic.Uint64
	// SlipCount indicates the number of cycles that overran the configured
	// interval. Slip is allowed and never compensated.
	SlipCount atomic.Uint64
}

func (m *AcquisitionMetrics) incCycleCount()  { m.CycleCount.Add(1) }
func (m *AcquisitionMetrics) incSampleCount() { m.SampleCount.Add(1) }
func (m *AcquisitionMetrics) incAlarmCount()  { m.AlarmCount.Add(1) }
func (m *AcquisitionMetrics) incSlipCount()   { m.SlipCount.Add(1) }
