package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/optigauge/go-grating/logger"
)

// Default link parameters. Framing is fixed at 8 data bits, no parity,
// one stop bit.
const (
	DefaultBaudRate = 9600

	// DefaultSettleDelay is the pause between writing a request and reading
	// the response buffer, giving the RS-485 slave time to turn the line
	// around and answer.
	DefaultSettleDelay = 50 * time.Millisecond

	// DefaultReadTimeout bounds a single response read.
	DefaultReadTimeout = 1 * time.Second
)

// Valid parameter ranges.
const (
	MinSettleDelay = 1 * time.Millisecond
	MaxSettleDelay = 2 * time.Second

	// MinSlaveAddr and MaxSlaveAddr bound the valid Modbus slave address
	// range; address 0 is the broadcast address and is never read from.
	MinSlaveAddr = 1
	MaxSlaveAddr = 247
)

// LinkConfig holds the physical link parameters for a serial Modbus transport.
type LinkConfig struct {
	// port is the serial device name, e.g. "/dev/ttyUSB0" or "COM3".
	port string

	baudRate int

	settleDelay time.Duration
	readTimeout time.Duration

	logger logger.Logger
}

// NewLinkConfig creates a link configuration for the given serial port.
//
// opts are functional options applied in order; see With* functions.
func NewLinkConfig(port string, opts ...LinkOption) (*LinkConfig, error) {
	if port == "" {
		return nil, errors.New("modbus: port must not be empty")
	}

	cfg := &LinkConfig{
		port:        port,
		baudRate:    DefaultBaudRate,
		settleDelay: DefaultSettleDelay,
		readTimeout: DefaultReadTimeout,
		logger:      logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Port returns the serial device name.
func (cfg *LinkConfig) Port() string { return cfg.port }

// BaudRate returns the configured baud rate.
func (cfg *LinkConfig) BaudRate() int { return cfg.baudRate }

// SettleDelay returns the write-to-read settle delay.
func (cfg *LinkConfig) SettleDelay() time.Duration { return cfg.settleDelay }

// ReadTimeout returns the per-response read timeout.
func (cfg *LinkConfig) ReadTimeout() time.Duration { return cfg.readTimeout }

// GetLogger returns the configured logger.
func (cfg *LinkConfig) GetLogger() logger.Logger { return cfg.logger }

// LinkOption is a functional option for configuring a LinkConfig.
type LinkOption interface {
	apply(*LinkConfig) error
}

type linkOptFunc func(*LinkConfig) error

func (f linkOptFunc) apply(cfg *LinkConfig) error { return f(cfg) }

// WithBaudRate sets the serial baud rate. Must be positive.
func WithBaudRate(baud int) LinkOption {
	return linkOptFunc(func(cfg *LinkConfig) error {
		if baud <= 0 {
			return fmt.Errorf("modbus: baud rate %d must be positive", baud)
		}
		cfg.baudRate = baud

		return nil
	})
}

// WithSettleDelay sets the write-to-read settle delay.
func WithSettleDelay(d time.Duration) LinkOption {
	return linkOptFunc(func(cfg *LinkConfig) error {
		if d < MinSettleDelay || d > MaxSettleDelay {
			return fmt.Errorf("modbus: settle delay %v out of range [%v, %v]", d, MinSettleDelay, MaxSettleDelay)
		}
		cfg.settleDelay = d

		return nil
	})
}

// WithReadTimeout sets the per-response read timeout.
func WithReadTimeout(d time.Duration) LinkOption {
	return linkOptFunc(func(cfg *LinkConfig) error {
		if d <= 0 {
			return errors.New("modbus: read timeout must be positive")
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithLinkLogger sets the logger for the transport.
func WithLinkLogger(l logger.Logger) LinkOption {
	return linkOptFunc(func(cfg *LinkConfig) error {
		if l == nil {
			return errors.New("modbus: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
