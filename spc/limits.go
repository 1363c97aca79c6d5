package spc

// SpecLimits holds the specification bounds and capability thresholds for
// one gauged parameter.
type SpecLimits struct {
	// USL is the upper specification limit.
	USL float64
	// LSL is the lower specification limit.
	LSL float64
	// Target is the nominal process center.
	Target float64
	// WarningLimit is the Cpk value below which quality degrades to a warning.
	WarningLimit float64
	// AlarmLimit is the Cpk value below which quality is alarmed.
	AlarmLimit float64
}

// defaultThresholds are the capability thresholds applied to every
// parameter unless overridden.
const (
	defaultWarningLimit = 1.33
	defaultAlarmLimit   = 1.0
)

// defaultLimits seeds the engine's table for the five known parameters.
// The unknown-parameter fallback keeps USL == LSL == 0 so capability on an
// unregistered parameter is forced to 0.
func defaultLimits() map[string]SpecLimits {
	return map[string]SpecLimits{
		"P1":  {USL: 220.90, LSL: 219.10, Target: 220.0, WarningLimit: defaultWarningLimit, AlarmLimit: defaultAlarmLimit},
		"P5U": {USL: 426.10, LSL: 423.90, Target: 425.0, WarningLimit: defaultWarningLimit, AlarmLimit: defaultAlarmLimit},
		"P5L": {USL: 426.10, LSL: 423.90, Target: 425.0, WarningLimit: defaultWarningLimit, AlarmLimit: defaultAlarmLimit},
		"P3":  {USL: 647.0, LSL: 643.0, Target: 645.0, WarningLimit: defaultWarningLimit, AlarmLimit: defaultAlarmLimit},
		"P4":  {USL: 1.5, LSL: 0.5, Target: 1.0, WarningLimit: defaultWarningLimit, AlarmLimit: defaultAlarmLimit},
	}
}

// unknownLimits is returned for parameters absent from the table.
func unknownLimits() SpecLimits {
	return SpecLimits{WarningLimit: defaultWarningLimit, AlarmLimit: defaultAlarmLimit}
}
