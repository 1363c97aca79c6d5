package acquire

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optigauge/go-grating/config"
	"github.com/optigauge/go-grating/gauge"
)

func testConfig() *config.Config {
	cfg := config.Default()
	// Nonexistent port: the transport stays closed and every poll serves
	// simulated data.
	cfg.Link.Port = "/dev/null-no-such-port"
	cfg.PollIntervalMS = 10

	return cfg
}

func newTestAcquisition(t *testing.T, cfg *config.Config) *Acquisition {
	t.Helper()

	a := New(cfg)
	require.NoError(t, a.Initialize())
	t.Cleanup(a.Stop)

	return a
}

func TestAcquisition_InitializeSimulatedMode(t *testing.T) {
	a := newTestAcquisition(t, testConfig())

	assert.False(t, a.Transport().IsConnected())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, a.ChannelIDs())
	assert.NotNil(t, a.Channel(3))
	assert.Nil(t, a.Channel(9))
	assert.Equal(t, IdleState, a.State())
}

func TestAcquisition_InitializeSkipsInvalidEntries(t *testing.T) {
	cfg := testConfig()
	cfg.Channels[1].Left.Slave = 0 // invalid bus address
	cfg.Channels[3].ID = 99        // out of range

	a := newTestAcquisition(t, cfg)

	assert.Equal(t, []int{1, 3, 5}, a.ChannelIDs())
}

func TestAcquisition_InitializeNoChannels(t *testing.T) {
	cfg := testConfig()
	for i := range cfg.Channels {
		cfg.Channels[i].ID = 0
	}

	a := New(cfg)
	require.ErrorIs(t, a.Initialize(), ErrNoChannels)
}

func TestAcquisition_PollCycleOrderAndCallbacks(t *testing.T) {
	a := newTestAcquisition(t, testConfig())

	var mu sync.Mutex
	var order []int
	a.SetMeasurementHandler(func(channelID int, sample gauge.Sample) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, channelID)

		assert.False(t, sample.Timestamp.IsZero())
	})

	require.True(t, a.pollCycle(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, order, "channels poll in ascending id order")
	assert.Equal(t, uint64(1), a.Metrics().CycleCount.Load())
	assert.Equal(t, uint64(5), a.Metrics().SampleCount.Load())
}

func TestAcquisition_AlarmCallback(t *testing.T) {
	cfg := testConfig()
	cfg.Channels = cfg.Channels[:1]
	// Impossible band around the simulated P1 center forces an alarm each
	// cycle.
	cfg.Channels[0].P1Bounds = &config.Bounds{Upper: 100.0, Lower: 0.0}

	a := newTestAcquisition(t, cfg)

	var mu sync.Mutex
	var alarms []string
	a.SetAlarmHandler(func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		alarms = append(alarms, msg)
	})

	require.True(t, a.pollCycle(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, alarms)
	assert.Contains(t, alarms[0], "channel 1 P1 over upper limit")
	assert.Equal(t, uint64(len(alarms)), a.Metrics().AlarmCount.Load())
}

func TestAcquisition_StartStop(t *testing.T) {
	a := newTestAcquisition(t, testConfig())

	a.Start()
	assert.Equal(t, RunningState, a.State())
	a.Start() // no-op while running

	require.Eventually(t, func() bool {
		return a.Metrics().CycleCount.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	a.Stop()
	assert.Equal(t, IdleState, a.State())

	// No cycle runs after Stop returns.
	cycles := a.Metrics().CycleCount.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, cycles, a.Metrics().CycleCount.Load())

	a.Stop() // idempotent

	// The worker can be restarted after a full stop.
	a.Start()
	assert.Equal(t, RunningState, a.State())
	require.Eventually(t, func() bool {
		return a.Metrics().CycleCount.Load() > cycles
	}, 2*time.Second, 5*time.Millisecond)
	a.Stop()
}

func TestAcquisition_PollCycleCancelled(t *testing.T) {
	a := newTestAcquisition(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, a.pollCycle(ctx), "a cancelled context stops the cycle loop")
	assert.Zero(t, a.Metrics().CycleCount.Load())
}
