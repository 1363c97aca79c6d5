package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "grating.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
link:
  port: /dev/ttyUSB1
  baud: 19200
poll_interval_ms: 100
channels:
  - id: 1
    left:  {slave: 1, start: 0, count: 2}
    right: {slave: 1, start: 2, count: 2}
  - id: 2
    left:  {slave: 2, start: 0, count: 2}
    right: {slave: 2, start: 2, count: 2}
    p1_bounds: {upper: 221.5, lower: 218.5}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Link.Port)
	assert.Equal(t, 19200, cfg.Link.Baud)
	assert.Equal(t, 100, cfg.PollIntervalMS)
	require.Len(t, cfg.Channels, 2)

	assert.Nil(t, cfg.Channels[0].P1Bounds)
	require.NotNil(t, cfg.Channels[1].P1Bounds)
	assert.InDelta(t, 221.5, cfg.Channels[1].P1Bounds.Upper, 1e-9)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "link: [not, a, mapping]"))
	require.Error(t, err)
}

func TestLoad_PortRequired(t *testing.T) {
	_, err := Load(writeConfig(t, "poll_interval_ms: 100"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link.port")
}

func TestValidate_Defaults(t *testing.T) {
	cfg := &Config{Link: Link{Port: "/dev/ttyUSB0"}}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 9600, cfg.Link.Baud)
	assert.Equal(t, DefaultPollIntervalMS, cfg.PollIntervalMS)
	assert.Equal(t, 200*time.Millisecond, cfg.PollInterval())
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Channels, MaxChannels)

	for i, entry := range cfg.Channels {
		require.NoError(t, entry.Validate())
		assert.Equal(t, i+1, entry.ID)
		assert.Equal(t, byte(i+1), entry.Left.Slave)
		assert.Equal(t, uint16(2), entry.Right.Start)
	}
}

func TestChannelEntry_Validate(t *testing.T) {
	valid := ChannelEntry{
		ID:    1,
		Left:  Block{Slave: 1, Start: 0, Count: 2},
		Right: Block{Slave: 1, Start: 2, Count: 2},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(e *ChannelEntry)
	}{
		{"zero id", func(e *ChannelEntry) { e.ID = 0 }},
		{"id over max", func(e *ChannelEntry) { e.ID = MaxChannels + 1 }},
		{"left slave zero", func(e *ChannelEntry) { e.Left.Slave = 0 }},
		{"right slave over 247", func(e *ChannelEntry) { e.Right.Slave = 248 }},
		{"left count zero", func(e *ChannelEntry) { e.Left.Count = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := valid
			tt.mutate(&entry)
			assert.Error(t, entry.Validate())
		})
	}
}

func TestChannelEntry_ChannelConfig(t *testing.T) {
	entry := ChannelEntry{
		ID:    1,
		Left:  Block{Slave: 1, Start: 0, Count: 2},
		Right: Block{Slave: 1, Start: 2, Count: 2},
	}

	cc := entry.ChannelConfig()
	assert.InDelta(t, 220.90, cc.P1Bounds.Upper, 1e-9, "omitted bounds fall back to legacy defaults")
	assert.InDelta(t, 423.90, cc.P5LBounds.Lower, 1e-9)

	entry.P5UBounds = &Bounds{Upper: 430, Lower: 420}
	cc = entry.ChannelConfig()
	assert.InDelta(t, 430.0, cc.P5UBounds.Upper, 1e-9)
	assert.InDelta(t, 220.90, cc.P1Bounds.Upper, 1e-9)
}
