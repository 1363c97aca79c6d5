package gauge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optigauge/go-grating/modbus"
	"github.com/optigauge/go-grating/spc"
)

func newTestChannel(t *testing.T, opts ...ChannelOption) *Channel {
	t.Helper()

	cfg := ChannelConfig{
		Left:  RegisterBlock{Slave: 1, Start: 0, Count: 2},
		Right: RegisterBlock{Slave: 1, Start: 2, Count: 2},
	}
	cfg.DefaultAlarmBounds()

	linkCfg, err := modbus.NewLinkConfig("/dev/null-no-such-port")
	require.NoError(t, err)

	return NewChannel(1, cfg, modbus.NewTransport(linkCfg), spc.NewEngine(), opts...)
}

func sampleWith(p1, p5u, p5l float64) Sample {
	return Sample{
		P1:        Reading{Average: p1},
		P5U:       Reading{Average: p5u},
		P5L:       Reading{Average: p5l},
		P3:        Reading{Average: 645.0},
		P4:        Reading{Average: 1.0},
		Timestamp: time.Now(),
	}
}

func TestChannel_PollDisconnected(t *testing.T) {
	ch := newTestChannel(t)

	require.True(t, ch.Poll(context.Background()))
	require.Equal(t, 1, ch.Len())

	// A disconnected transport yields synthetic data around the nominal
	// process centers.
	latest := ch.Latest()
	assert.InDelta(t, 220.0, latest.Average(P1), 0.3*6)
	assert.InDelta(t, 425.0, latest.Average(P5U), 0.5*6)
	assert.InDelta(t, 425.0, latest.Average(P5L), 0.5*6)
	assert.InDelta(t, 645.0, latest.Average(P3), 0.8*6)
	assert.InDelta(t, 1.0, latest.Average(P4), 0.1*6)
	assert.False(t, latest.Timestamp.IsZero())

	for _, p := range Parameters() {
		assert.GreaterOrEqual(t, latest.Reading(p).Range, 0.0)
	}
}

func TestChannel_HistoryEviction(t *testing.T) {
	ch := newTestChannel(t)

	for i := 0; i < HistoryCapacity+5; i++ {
		ch.append(Sample{P1: Reading{Average: float64(i)}})
	}

	require.Equal(t, HistoryCapacity, ch.Len())

	// Oldest five were evicted; order is preserved.
	hist := ch.History(HistoryCapacity)
	assert.InDelta(t, 5.0, hist[0].Average(P1), 1e-9)
	assert.InDelta(t, float64(HistoryCapacity+4), hist[len(hist)-1].Average(P1), 1e-9)
}

func TestChannel_LatestAndHistory(t *testing.T) {
	ch := newTestChannel(t)

	assert.Equal(t, Sample{}, ch.Latest())
	assert.Empty(t, ch.History(10))

	ch.append(sampleWith(219.9, 424.8, 425.2))
	ch.append(sampleWith(220.1, 425.1, 424.9))

	assert.InDelta(t, 220.1, ch.Latest().Average(P1), 1e-9)

	hist := ch.History(10)
	require.Len(t, hist, 2)
	assert.InDelta(t, 219.9, hist[0].Average(P1), 1e-9)

	one := ch.History(1)
	require.Len(t, one, 1)
	assert.InDelta(t, 220.1, one[0].Average(P1), 1e-9)

	// The returned slice is a copy.
	one[0].P1.Average = 0
	assert.InDelta(t, 220.1, ch.Latest().Average(P1), 1e-9)
}

func TestChannel_Capability(t *testing.T) {
	ch := newTestChannel(t)

	// Too few samples.
	for i := 0; i < capabilityMinSamples-1; i++ {
		ch.append(sampleWith(220.0, 425.0, 425.0))
	}
	assert.Zero(t, ch.Capability(P1))

	// A flat series has zero spread; Cpk degenerates to zero.
	ch.append(sampleWith(220.0, 425.0, 425.0))
	require.GreaterOrEqual(t, ch.Len(), capabilityMinSamples)
	assert.Zero(t, ch.Capability(P1))

	// Add spread: alternating ±0.3 around center keeps Cpk positive and
	// finite.
	for i := 0; i < 10; i++ {
		delta := 0.3
		if i%2 == 0 {
			delta = -0.3
		}
		ch.append(sampleWith(220.0+delta, 425.0, 425.0))
	}

	cpk := ch.Capability(P1)
	assert.Greater(t, cpk, 0.0)
	assert.Less(t, cpk, 10.0)
}

func TestChannel_CheckAlarms(t *testing.T) {
	ch := newTestChannel(t)

	assert.Nil(t, ch.CheckAlarms(), "empty history raises nothing")

	ch.append(sampleWith(220.0, 425.0, 425.0))
	assert.Empty(t, ch.CheckAlarms())

	ch.append(sampleWith(221.5, 425.0, 423.0))
	alarms := ch.CheckAlarms()
	require.Len(t, alarms, 2)
	assert.Contains(t, alarms[0], "channel 1 P1 over upper limit")
	assert.Contains(t, alarms[1], "channel 1 P5L under lower limit")
}

func TestChannel_DecodeProfileOption(t *testing.T) {
	broken := &DecodeProfile{Name: "broken", Fields: map[Parameter]FieldSpec{}}
	ch := newTestChannel(t, WithDecodeProfile(broken))

	assert.Same(t, broken, ch.profile)
	assert.Equal(t, 1, ch.ID())
	assert.Equal(t, byte(1), ch.Config().Left.Slave)
}
