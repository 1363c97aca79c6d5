package gauge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/optigauge/go-grating/internal/util"
	"github.com/optigauge/go-grating/logger"
	"github.com/optigauge/go-grating/modbus"
	"github.com/optigauge/go-grating/spc"
)

// HistoryCapacity bounds the per-channel sample history. Once full, the
// oldest sample is evicted first.
const HistoryCapacity = 1000

// capabilityMinSamples is the minimum buffered sample count for a channel
// capability estimate to be meaningful.
const capabilityMinSamples = 10

// RegisterBlock describes one register source on the bus.
type RegisterBlock struct {
	// Slave is the bus address, 1..247.
	Slave byte
	// Start is the first register of the block.
	Start uint16
	// Count is the number of registers to read.
	Count uint16
}

// AlarmBounds is a fixed upper/lower alarm band for one parameter.
type AlarmBounds struct {
	Upper float64
	Lower float64
}

// ChannelConfig describes a channel's two register sources ("left" and
// "right" gauge heads) and the legacy fixed alarm bounds.
//
// Only P1, P5U and P5L carry alarm bounds; P3 and P4 are not alarm-checked,
// matching the historical behavior.
type ChannelConfig struct {
	Left  RegisterBlock
	Right RegisterBlock

	P1Bounds  AlarmBounds
	P5UBounds AlarmBounds
	P5LBounds AlarmBounds
}

// DefaultAlarmBounds fills the legacy alarm bands: they equal the default
// specification limits of each parameter.
func (cfg *ChannelConfig) DefaultAlarmBounds() {
	cfg.P1Bounds = AlarmBounds{Upper: 220.90, Lower: 219.10}
	cfg.P5UBounds = AlarmBounds{Upper: 426.10, Lower: 423.90}
	cfg.P5LBounds = AlarmBounds{Upper: 426.10, Lower: 423.90}
}

// Channel owns one measurement source: its configuration, a bounded sample
// history, and references to the shared transport and statistics engine.
//
// History reads (Latest, History, Capability) may run concurrently with the
// polling worker's appends; the history is guarded by a read-write lock and
// readers always receive copies, never aliases into internal storage.
type Channel struct {
	id        int
	cfg       ChannelConfig
	transport *modbus.Transport
	engine    *spc.Engine
	profile   *DecodeProfile
	logger    logger.Logger

	mu      sync.RWMutex
	history []Sample
}

// ChannelOption configures a Channel at construction.
type ChannelOption func(*Channel)

// WithDecodeProfile replaces the default legacy decode profile.
func WithDecodeProfile(p *DecodeProfile) ChannelOption {
	return func(ch *Channel) { ch.profile = p }
}

// WithChannelLogger sets the channel's logger.
func WithChannelLogger(l logger.Logger) ChannelOption {
	return func(ch *Channel) { ch.logger = l }
}

// NewChannel creates a channel with the given id and configuration,
// borrowing the shared transport and statistics engine.
func NewChannel(id int, cfg ChannelConfig, transport *modbus.Transport, engine *spc.Engine, opts ...ChannelOption) *Channel {
	ch := &Channel{
		id:        id,
		cfg:       cfg,
		transport: transport,
		engine:    engine,
		profile:   LegacyProfile(),
		logger:    logger.GetLogger(),
		history:   make([]Sample, 0, HistoryCapacity),
	}

	for _, opt := range opts {
		opt(ch)
	}

	ch.logger = ch.logger.With("channel", id)

	return ch
}

// ID returns the channel id.
func (ch *Channel) ID() int { return ch.id }

// Config returns the channel configuration.
func (ch *Channel) Config() ChannelConfig { return ch.cfg }

// Poll reads the channel's two register blocks and appends one Sample to
// the history.
//
// A disconnected transport or an empty read does not fail the poll: a
// simulated sample is synthesized instead so the pipeline keeps producing
// data. Poll returns false only when raw data was read but could not be
// decoded under the active profile.
func (ch *Channel) Poll(ctx context.Context) bool {
	now := time.Now()

	if !ch.transport.IsConnected() {
		ch.append(simulatedSample(now))
		return true
	}

	left := ch.transport.ReadRegisters(ctx, ch.cfg.Left.Slave, ch.cfg.Left.Start, ch.cfg.Left.Count)
	right := ch.transport.ReadRegisters(ctx, ch.cfg.Right.Slave, ch.cfg.Right.Start, ch.cfg.Right.Count)

	if len(left) == 0 || len(right) == 0 {
		// No data this cycle; keep the stream alive with synthetic data.
		ch.append(simulatedSample(now))
		return true
	}

	sample, err := ch.profile.Decode(left, right, now)
	if err != nil {
		ch.logger.Warn("raw block decode failed", "profile", ch.profile.Name, "error", err)
		return false
	}

	ch.append(sample)

	return true
}

// append pushes a sample into the bounded history, evicting the oldest
// entry once at capacity.
func (ch *Channel) append(s Sample) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if len(ch.history) >= HistoryCapacity {
		copy(ch.history, ch.history[1:])
		ch.history[len(ch.history)-1] = s

		return
	}

	ch.history = append(ch.history, s)
}

// Latest returns the most recent sample, or a zero Sample if the history
// is empty.
func (ch *Channel) Latest() Sample {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.history) == 0 {
		return Sample{}
	}

	return ch.history[len(ch.history)-1]
}

// History returns up to n of the most recent samples in oldest-to-newest
// order. The returned slice is a copy.
func (ch *Channel) History(n int) []Sample {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if n > len(ch.history) {
		n = len(ch.history)
	}

	return util.CloneSlice(ch.history[len(ch.history)-n:], 0)
}

// Len returns the buffered sample count.
func (ch *Channel) Len() int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	return len(ch.history)
}

// Capability computes the Cpk of a parameter over all buffered samples
// using the engine's specification limits. It returns 0 when fewer than 10
// samples are buffered or the parameter's limits are degenerate.
func (ch *Channel) Capability(param Parameter) float64 {
	ch.mu.RLock()
	values := make([]float64, len(ch.history))
	for i, s := range ch.history {
		values[i] = s.Average(param)
	}
	ch.mu.RUnlock()

	if len(values) < capabilityMinSamples {
		return 0
	}

	lim := ch.engine.Limits(string(param))
	if lim.USL == lim.LSL {
		return 0
	}

	return spc.Cpk(values, lim.LSL, lim.USL)
}

// CheckAlarms evaluates the latest sample against the channel's fixed
// alarm bounds and returns one message per violated bound.
//
// Only P1, P5U and P5L are checked; P3 and P4 carry no legacy bounds.
func (ch *Channel) CheckAlarms() []string {
	ch.mu.RLock()
	if len(ch.history) == 0 {
		ch.mu.RUnlock()
		return nil
	}
	latest := ch.history[len(ch.history)-1]
	ch.mu.RUnlock()

	checks := []struct {
		param  Parameter
		bounds AlarmBounds
	}{
		{P1, ch.cfg.P1Bounds},
		{P5U, ch.cfg.P5UBounds},
		{P5L, ch.cfg.P5LBounds},
	}

	var alarms []string
	for _, c := range checks {
		avg := latest.Average(c.param)
		switch {
		case avg > c.bounds.Upper:
			alarms = append(alarms, fmt.Sprintf("channel %d %s over upper limit: %.3f > %.3f",
				ch.id, c.param, avg, c.bounds.Upper))
		case avg < c.bounds.Lower:
			alarms = append(alarms, fmt.Sprintf("channel %d %s under lower limit: %.3f < %.3f",
				ch.id, c.param, avg, c.bounds.Lower))
		}
	}

	return alarms
}
