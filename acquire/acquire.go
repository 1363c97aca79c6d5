package acquire

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/optigauge/go-grating/config"
	"github.com/optigauge/go-grating/gauge"
	"github.com/optigauge/go-grating/internal/pool"
	"github.com/optigauge/go-grating/logger"
	"github.com/optigauge/go-grating/modbus"
	"github.com/optigauge/go-grating/spc"
)

// ErrNoChannels indicates that no channel could be constructed from the
// configuration during Initialize.
var ErrNoChannels = errors.New("acquire: no usable channel configured")

// MeasurementHandler receives one sample per successfully polled channel
// per cycle. It runs synchronously on the polling worker.
type MeasurementHandler func(channelID int, sample gauge.Sample)

// AlarmHandler receives one message per alarm condition detected on the
// latest sample. It runs synchronously on the polling worker.
type AlarmHandler func(message string)

// Acquisition owns the transport, the channel set, and the polling worker.
type Acquisition struct {
	cfg    *config.Config
	logger logger.Logger
	engine *spc.Engine

	transport *modbus.Transport
	channels  *xsync.MapOf[int, *gauge.Channel]
	ids       []int // ascending poll order, fixed after Initialize
	interval  time.Duration

	channelOpts []gauge.ChannelOption

	taskMgr *taskManager
	state   atomicRunState
	metrics AcquisitionMetrics

	measurementHandler MeasurementHandler
	alarmHandler       AlarmHandler
}

// Option configures an Acquisition at construction.
type Option func(*Acquisition)

// WithLogger sets the orchestrator's logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Acquisition) { a.logger = l }
}

// WithEngine injects a statistics engine shared with collaborators.
// By default a fresh engine with the standard limit table is created.
func WithEngine(eng *spc.Engine) Option {
	return func(a *Acquisition) { a.engine = eng }
}

// WithChannelOptions appends options applied to every constructed channel,
// e.g. a non-default decode profile.
func WithChannelOptions(opts ...gauge.ChannelOption) Option {
	return func(a *Acquisition) { a.channelOpts = append(a.channelOpts, opts...) }
}

// New creates an Acquisition for the given configuration. Call Initialize
// before Start.
func New(cfg *config.Config, opts ...Option) *Acquisition {
	a := &Acquisition{
		cfg:      cfg,
		logger:   logger.GetLogger(),
		channels: xsync.NewMapOf[int, *gauge.Channel](),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.engine == nil {
		a.engine = spc.NewEngine()
	}

	a.taskMgr = newTaskManager(context.Background(), a.logger)

	return a
}

// SetMeasurementHandler registers the measurement callback.
// It must be called before Start.
func (a *Acquisition) SetMeasurementHandler(h MeasurementHandler) {
	a.measurementHandler = h
}

// SetAlarmHandler registers the alarm callback. It must be called before Start.
func (a *Acquisition) SetAlarmHandler(h AlarmHandler) {
	a.alarmHandler = h
}

// Initialize opens the transport and constructs the channel set.
//
// A failed serial open is tolerated: the transport degrades to simulated
// data and initialization proceeds. A channel entry that fails validation
// is skipped with a warning. Initialize fails only when no channel at all
// could be constructed.
func (a *Acquisition) Initialize() error {
	linkCfg, err := modbus.NewLinkConfig(a.cfg.Link.Port,
		modbus.WithBaudRate(a.cfg.Link.Baud),
		modbus.WithLinkLogger(a.logger),
	)
	if err != nil {
		return err
	}

	a.transport = modbus.NewTransport(linkCfg)
	if err := a.transport.Open(); err != nil {
		a.logger.Warn("transport open failed, continuing in simulated mode", "error", err)
	}

	for i := range a.cfg.Channels {
		entry := &a.cfg.Channels[i]
		if err := entry.Validate(); err != nil {
			a.logger.Warn("skipping channel", "id", entry.ID, "error", err)
			continue
		}

		opts := append([]gauge.ChannelOption{gauge.WithChannelLogger(a.logger)}, a.channelOpts...)
		ch := gauge.NewChannel(entry.ID, entry.ChannelConfig(), a.transport, a.engine, opts...)

		a.channels.Store(entry.ID, ch)
		a.ids = append(a.ids, entry.ID)
	}

	if len(a.ids) == 0 {
		return ErrNoChannels
	}

	sort.Ints(a.ids)
	a.interval = a.cfg.PollInterval()

	a.logger.Info("acquisition initialized",
		"channels", len(a.ids),
		"interval", a.interval,
		"connected", a.transport.IsConnected(),
	)

	return nil
}

// Start spawns the polling worker and returns immediately.
// It is a no-op when the worker is already running.
func (a *Acquisition) Start() {
	if !a.state.ToRunning() {
		return
	}

	a.taskMgr.start("poller", a.pollCycle)
	a.logger.Info("acquisition started")
}

// Stop signals the polling worker and blocks until it has fully exited.
// No callback fires after Stop returns. It is a no-op when already idle.
func (a *Acquisition) Stop() {
	if !a.state.ToStopping() {
		return
	}

	a.taskMgr.stop()
	a.taskMgr.wait()
	a.state.Set(IdleState)

	a.logger.Info("acquisition stopped")
}

// State returns the current run state.
func (a *Acquisition) State() RunState {
	return a.state.Get()
}

// Channel returns the channel with the given id, or nil if it was not
// constructed.
func (a *Acquisition) Channel(id int) *gauge.Channel {
	ch, _ := a.channels.Load(id)
	return ch
}

// ChannelIDs returns the constructed channel ids in poll order.
func (a *Acquisition) ChannelIDs() []int {
	ids := make([]int, len(a.ids))
	copy(ids, a.ids)

	return ids
}

// Engine returns the statistics engine shared by all channels.
func (a *Acquisition) Engine() *spc.Engine {
	return a.engine
}

// Transport returns the shared transport.
func (a *Acquisition) Transport() *modbus.Transport {
	return a.transport
}

// Metrics returns the worker metrics counters.
func (a *Acquisition) Metrics() *AcquisitionMetrics {
	return &a.metrics
}

// pollCycle executes one full poll cycle and paces to the configured
// interval. It is driven in a loop by the task manager; returning true
// schedules the next cycle.
func (a *Acquisition) pollCycle(ctx context.Context) bool {
	start := time.Now()

	for _, id := range a.ids {
		if ctx.Err() != nil {
			return false
		}

		ch, ok := a.channels.Load(id)
		if !ok {
			continue
		}

		if !ch.Poll(ctx) {
			continue
		}

		a.metrics.incSampleCount()
		if a.measurementHandler != nil {
			a.measurementHandler(id, ch.Latest())
		}

		for _, msg := range ch.CheckAlarms() {
			a.metrics.incAlarmCount()
			if a.alarmHandler != nil {
				a.alarmHandler(msg)
			}
		}
	}

	a.metrics.incCycleCount()

	elapsed := time.Since(start)
	if elapsed >= a.interval {
		// Cycle slip: proceed immediately, never compensate.
		a.metrics.incSlipCount()
		return true
	}

	// Cancellable pacing wait so Stop can interrupt mid-sleep.
	timer := pool.GetTimer(a.interval - elapsed)
	defer pool.PutTimer(timer)

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
