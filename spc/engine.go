package spc

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// Snapshot is the derived statistics view of one sample window.
// It is recomputed in full on each call; nothing is maintained incrementally.
type Snapshot struct {
	Mean        float64
	Stddev      float64
	Min         float64
	Max         float64
	Range       float64
	Cpk         float64
	Cp          float64
	SampleCount int
}

// snapshotKey identifies a cached snapshot by channel and parameter.
type snapshotKey struct {
	channelID int
	parameter string
}

// Engine holds the specification-limit table and the per-channel snapshot
// cache. It is safe for concurrent use.
type Engine struct {
	limits    *xsync.MapOf[string, SpecLimits]
	snapshots *xsync.MapOf[snapshotKey, Snapshot]
}

// NewEngine creates an Engine pre-seeded with the default limit table for
// the five known parameters.
func NewEngine() *Engine {
	eng := &Engine{
		limits:    xsync.NewMapOf[string, SpecLimits](),
		snapshots: xsync.NewMapOf[snapshotKey, Snapshot](),
	}

	for param, lim := range defaultLimits() {
		eng.limits.Store(param, lim)
	}

	return eng
}

// SetLimits replaces the specification limits for a parameter.
func (e *Engine) SetLimits(parameter string, limits SpecLimits) {
	e.limits.Store(parameter, limits)
}

// Limits returns the specification limits for a parameter.
//
// An unregistered parameter yields limits with USL == LSL == 0, which
// forces Cpk and Cp to 0 regardless of the sample data.
func (e *Engine) Limits(parameter string) SpecLimits {
	if lim, ok := e.limits.Load(parameter); ok {
		return lim
	}

	return unknownLimits()
}

// WithinLimits reports whether value lies inside the parameter's spec band.
func (e *Engine) WithinLimits(value float64, parameter string) bool {
	lim := e.Limits(parameter)
	return value >= lim.LSL && value <= lim.USL
}

// Compute derives a full statistics snapshot from values using the
// parameter's spec limits. An empty window yields a zero snapshot.
func (e *Engine) Compute(values []float64, parameter string) Snapshot {
	var snap Snapshot
	if len(values) == 0 {
		return snap
	}

	snap.SampleCount = len(values)
	snap.Mean = mean(values)
	snap.Stddev = stddev(values, snap.Mean)

	snap.Min = values[0]
	snap.Max = values[0]
	for _, v := range values[1:] {
		snap.Min = math.Min(snap.Min, v)
		snap.Max = math.Max(snap.Max, v)
	}
	snap.Range = snap.Max - snap.Min

	lim := e.Limits(parameter)
	if lim.USL != lim.LSL {
		snap.Cpk = Cpk(values, lim.LSL, lim.USL)
		snap.Cp = Cp(values, lim.LSL, lim.USL)
	}

	return snap
}

// Update recomputes the snapshot for (channelID, parameter) from values and
// overwrites the cache entry.
func (e *Engine) Update(channelID int, parameter string, values []float64) {
	key := snapshotKey{channelID: channelID, parameter: parameter}
	e.snapshots.Store(key, e.Compute(values, parameter))
}

// ChannelSnapshot returns the cached snapshot for (channelID, parameter),
// or a zero snapshot if none has been computed.
func (e *Engine) ChannelSnapshot(channelID int, parameter string) Snapshot {
	snap, _ := e.snapshots.Load(snapshotKey{channelID: channelID, parameter: parameter})
	return snap
}

// Report formats every cached snapshot for a channel, ordered by parameter
// name for stable output.
func (e *Engine) Report(channelID int) string {
	type entry struct {
		parameter string
		snap      Snapshot
	}

	var entries []entry
	e.snapshots.Range(func(key snapshotKey, snap Snapshot) bool {
		if key.channelID == channelID {
			entries = append(entries, entry{parameter: key.parameter, snap: snap})
		}
		return true
	})

	sort.Slice(entries, func(i, j int) bool { return entries[i].parameter < entries[j].parameter })

	var b strings.Builder
	fmt.Fprintf(&b, "Channel %d quality report\n", channelID)
	b.WriteString("========================\n")

	for _, ent := range entries {
		s := ent.snap
		fmt.Fprintf(&b, "\nParameter: %s\n", ent.parameter)
		fmt.Fprintf(&b, "  samples: %d\n", s.SampleCount)
		fmt.Fprintf(&b, "  mean:    %.3f\n", s.Mean)
		fmt.Fprintf(&b, "  stddev:  %.3f\n", s.Stddev)
		fmt.Fprintf(&b, "  min:     %.3f\n", s.Min)
		fmt.Fprintf(&b, "  max:     %.3f\n", s.Max)
		fmt.Fprintf(&b, "  range:   %.3f\n", s.Range)
		fmt.Fprintf(&b, "  cpk:     %.3f\n", s.Cpk)
		fmt.Fprintf(&b, "  cp:      %.3f\n", s.Cp)
		fmt.Fprintf(&b, "  grade:   %s\n", Classify(s.Cpk))
	}

	return b.String()
}

// Cpk computes min((USL−mean)/(3σ), (mean−LSL)/(3σ)) over values using the
// sample standard deviation. It returns 0 when undefined: fewer than two
// samples or zero deviation.
func Cpk(values []float64, lsl, usl float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := mean(values)
	sd := stddev(values, m)
	if sd == 0 {
		return 0
	}

	cpu := (usl - m) / (3 * sd)
	cpl := (m - lsl) / (3 * sd)

	return math.Min(cpu, cpl)
}

// Cp computes (USL−LSL)/(6σ) over values using the sample standard
// deviation. It returns 0 when undefined.
func Cp(values []float64, lsl, usl float64) float64 {
	if len(values) < 2 {
		return 0
	}

	sd := stddev(values, mean(values))
	if sd == 0 {
		return 0
	}

	return (usl - lsl) / (6 * sd)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// stddev is the sample standard deviation (n−1 denominator); 0 when n < 2.
func stddev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}

	return math.Sqrt(variance / float64(len(values)-1))
}
