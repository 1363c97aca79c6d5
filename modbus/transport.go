package modbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/optigauge/go-grating/logger"
)

// responseBufSize is the receive buffer size for a single response frame.
// The largest legal function 0x03 response (125 registers) is 255 bytes.
const responseBufSize = 256

// Transport owns the serial link to the gauge bus and serializes all
// register reads over it.
//
// All methods are safe for concurrent use. The zero configuration of the
// link (unopened or failed Open) is fully usable: reads degrade to
// deterministic simulated data, see ReadRegisters.
type Transport struct {
	cfg     *LinkConfig
	logger  logger.Logger
	metrics TransportMetrics

	linkState atomicLinkState

	// mu enforces single-master bus discipline: one outstanding
	// request/response exchange at a time. It also guards port.
	mu   sync.Mutex
	port serial.Port
}

// NewTransport creates a Transport for the given link configuration.
// The link is not opened until Open is called.
func NewTransport(cfg *LinkConfig) *Transport {
	return &Transport{
		cfg:    cfg,
		logger: cfg.GetLogger().With("port", cfg.Port()),
	}
}

// Open opens the serial port with 8N1 framing at the configured baud rate.
//
// Open never leaves the transport unusable: on failure the link stays
// closed and ReadRegisters serves simulated data. The returned error is
// informational. Calling Open on an opened transport is a no-op.
func (t *Transport) Open() error {
	if !t.linkState.ToOpening() {
		// Already opening or opened.
		return nil
	}

	mode := &serial.Mode{
		BaudRate: t.cfg.BaudRate(),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(t.cfg.Port(), mode)
	if err != nil {
		t.linkState.Set(LinkClosed)
		t.logger.Warn("serial open failed, reads degrade to simulated data",
			"baudRate", t.cfg.BaudRate(),
			"error", err,
		)

		return fmt.Errorf("modbus: open %s: %w", t.cfg.Port(), err)
	}

	if err := port.SetReadTimeout(t.cfg.ReadTimeout()); err != nil {
		_ = port.Close()
		t.linkState.Set(LinkClosed)

		return fmt.Errorf("modbus: set read timeout: %w", err)
	}

	t.mu.Lock()
	t.port = port
	t.mu.Unlock()

	t.linkState.ToOpened()
	t.logger.Info("serial link opened", "baudRate", t.cfg.BaudRate())

	return nil
}

// IsConnected reports whether the serial link is open.
func (t *Transport) IsConnected() bool {
	return t.linkState.IsOpened()
}

// State returns the current link state.
func (t *Transport) State() LinkState {
	return t.linkState.Get()
}

// Metrics returns the transport metrics counters.
func (t *Transport) Metrics() *TransportMetrics {
	return &t.metrics
}

// Close releases the serial link. It is idempotent.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port != nil {
		if err := t.port.Close(); err != nil {
			t.logger.Warn("serial close failed", "error", err)
		}
		t.port = nil
	}

	t.linkState.Set(LinkClosed)
}

// ReadRegisters reads count holding registers starting at start from the
// given slave address (1..247).
//
// It returns a decoded register slice, or nil when no valid data is
// available this cycle: invalid arguments, a write/read failure, or a
// response that fails validation all yield nil, never an error. When the
// link is closed the result is a deterministic simulated ramp so bench
// operation keeps producing data.
//
// ctx bounds the settle wait between request and response.
func (t *Transport) ReadRegisters(ctx context.Context, slave byte, start, count uint16) []uint16 {
	if slave < MinSlaveAddr || slave > MaxSlaveAddr {
		t.logger.Warn("slave address out of range", "slave", slave)
		return nil
	}
	if count == 0 {
		return nil
	}

	if !t.IsConnected() {
		t.metrics.incSimulatedReadCount()
		return simulatedRegisters(count)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		// Closed between the state check and lock acquisition.
		t.metrics.incSimulatedReadCount()
		return simulatedRegisters(count)
	}

	frame := readRequest(slave, start, count)
	t.metrics.incRequestCount()

	if _, err := t.port.Write(frame); err != nil {
		t.metrics.incIOErrCount()
		t.logger.Warn("request write failed", "slave", slave, "error", err)

		return nil
	}

	// Give the slave time to turn the line around before draining the
	// response buffer.
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(t.cfg.SettleDelay()):
	}

	buf := make([]byte, responseBufSize)
	n, err := t.port.Read(buf)
	if err != nil || n == 0 {
		t.metrics.incIOErrCount()
		t.logger.Debug("no response", "slave", slave, "start", start, "error", err)

		return nil
	}

	regs, err := parseReadResponse(buf[:n], slave, count)
	if err != nil {
		t.metrics.incValidationErrCount()
		t.logger.Debug("response rejected", "slave", slave, "start", start, "error", err)

		return nil
	}

	t.metrics.incResponseCount()

	return regs
}

// simulatedRegisters produces the disconnected-fallback values: a
// deterministic ramp per requested register index.
func simulatedRegisters(count uint16) []uint16 {
	regs := make([]uint16, count)
	for i := range regs {
		regs[i] = uint16(22000 + i*100)
	}

	return regs
}
