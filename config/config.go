// Package config loads the on-disk YAML configuration consumed by the
// acquisition pipeline: the serial link parameters, the global poll
// interval, and the per-channel register descriptors with their legacy
// alarm bounds.
//
// The configuration is an explicitly constructed value owned by the process
// entry point and passed into the orchestrator; there is no global state.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/optigauge/go-grating/gauge"
)

// MaxChannels is the number of gauging channels the bus supports.
const MaxChannels = 5

// DefaultPollIntervalMS is the poll interval used when the file omits one.
const DefaultPollIntervalMS = 200

// Link holds the serial link parameters. Framing is fixed at 8N1.
type Link struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// Block describes one register source: bus address, start register, count.
type Block struct {
	Slave byte   `yaml:"slave"`
	Start uint16 `yaml:"start"`
	Count uint16 `yaml:"count"`
}

// Bounds is a fixed alarm band for one parameter.
type Bounds struct {
	Upper float64 `yaml:"upper"`
	Lower float64 `yaml:"lower"`
}

// ChannelEntry configures one gauging channel. The alarm bound entries are
// optional; omitted bounds fall back to the legacy defaults.
type ChannelEntry struct {
	ID    int   `yaml:"id"`
	Left  Block `yaml:"left"`
	Right Block `yaml:"right"`

	P1Bounds  *Bounds `yaml:"p1_bounds,omitempty"`
	P5UBounds *Bounds `yaml:"p5u_bounds,omitempty"`
	P5LBounds *Bounds `yaml:"p5l_bounds,omitempty"`
}

// Config is the full acquisition configuration.
type Config struct {
	Link           Link           `yaml:"link"`
	PollIntervalMS int            `yaml:"poll_interval_ms"`
	Channels       []ChannelEntry `yaml:"channels"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a bench configuration: five channels with two-register
// left/right blocks on consecutive slave addresses.
func Default() *Config {
	cfg := &Config{
		Link:           Link{Port: "/dev/ttyUSB0", Baud: 9600},
		PollIntervalMS: DefaultPollIntervalMS,
	}

	for id := 1; id <= MaxChannels; id++ {
		cfg.Channels = append(cfg.Channels, ChannelEntry{
			ID:    id,
			Left:  Block{Slave: byte(id), Start: 0, Count: 2},
			Right: Block{Slave: byte(id), Start: 2, Count: 2},
		})
	}

	return cfg
}

// Validate checks the global fields and applies defaults. Per-channel
// entries are validated separately so a broken channel can be skipped
// without rejecting the whole file.
func (cfg *Config) Validate() error {
	if cfg.Link.Port == "" {
		return fmt.Errorf("config: link.port must not be empty")
	}
	if cfg.Link.Baud <= 0 {
		cfg.Link.Baud = 9600
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = DefaultPollIntervalMS
	}

	return nil
}

// PollInterval returns the poll interval as a duration.
func (cfg *Config) PollInterval() time.Duration {
	return time.Duration(cfg.PollIntervalMS) * time.Millisecond
}

// Validate checks one channel entry.
func (e *ChannelEntry) Validate() error {
	if e.ID < 1 || e.ID > MaxChannels {
		return fmt.Errorf("config: channel id %d out of range [1, %d]", e.ID, MaxChannels)
	}

	for _, b := range []struct {
		name  string
		block Block
	}{{"left", e.Left}, {"right", e.Right}} {
		if b.block.Slave < 1 || b.block.Slave > 247 {
			return fmt.Errorf("config: channel %d %s slave %d out of range [1, 247]", e.ID, b.name, b.block.Slave)
		}
		if b.block.Count < 1 {
			return fmt.Errorf("config: channel %d %s register count must be >= 1", e.ID, b.name)
		}
	}

	return nil
}

// ChannelConfig converts the entry into a gauge.ChannelConfig, filling
// omitted alarm bounds with the legacy defaults.
func (e *ChannelEntry) ChannelConfig() gauge.ChannelConfig {
	cc := gauge.ChannelConfig{
		Left:  gauge.RegisterBlock{Slave: e.Left.Slave, Start: e.Left.Start, Count: e.Left.Count},
		Right: gauge.RegisterBlock{Slave: e.Right.Slave, Start: e.Right.Start, Count: e.Right.Count},
	}
	cc.DefaultAlarmBounds()

	if e.P1Bounds != nil {
		cc.P1Bounds = gauge.AlarmBounds{Upper: e.P1Bounds.Upper, Lower: e.P1Bounds.Lower}
	}
	if e.P5UBounds != nil {
		cc.P5UBounds = gauge.AlarmBounds{Upper: e.P5UBounds.Upper, Lower: e.P5UBounds.Lower}
	}
	if e.P5LBounds != nil {
		cc.P5LBounds = gauge.AlarmBounds{Upper: e.P5LBounds.Upper, Lower: e.P5LBounds.Lower}
	}

	return cc
}
