package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optigauge/go-grating/gauge"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "journal.db"), nil)
	require.NoError(t, err)

	return st
}

func testSample() gauge.Sample {
	return gauge.Sample{
		P1:        gauge.Reading{Average: 220.05, Range: 0.01},
		P5U:       gauge.Reading{Average: 425.10, Range: 0.02},
		P5L:       gauge.Reading{Average: 424.95, Range: 0.02},
		P3:        gauge.Reading{Average: 645.30, Range: 0.05},
		P4:        gauge.Reading{Average: 1.00, Range: 0.00},
		Timestamp: time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC),
	}
}

func TestStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	st, err := Open(path, nil)
	require.NoError(t, err)

	st.LogMeasurement(2, testSample())
	st.LogAlarm("channel 2 P1 over upper limit: 221.500 > 220.900")
	require.NoError(t, st.Close())

	st2, err := Open(path, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, st2.Close()) }()

	var count int
	require.NoError(t, st2.db.QueryRow("SELECT COUNT(*) FROM measurements").Scan(&count))
	assert.Equal(t, len(gauge.Parameters()), count, "one row per parameter")

	var avg float64
	var ts string
	require.NoError(t, st2.db.QueryRow(
		"SELECT timestamp, average FROM measurements WHERE channel_id = 2 AND parameter = 'P1'").Scan(&ts, &avg))
	assert.InDelta(t, 220.05, avg, 1e-9)
	assert.Equal(t, "2026-08-28 10:30:00.000", ts)

	var message string
	require.NoError(t, st2.db.QueryRow("SELECT message FROM alarms").Scan(&message))
	assert.Contains(t, message, "over upper limit")
}

func TestStore_QueueFullDropsEvents(t *testing.T) {
	st := openTestStore(t)
	defer func() { require.NoError(t, st.Close()) }()

	// Flooding far past the queue capacity must never block the caller.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < DefaultQueueSize*4; i++ {
			st.LogAlarm("flood")
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("LogAlarm blocked on a full queue")
	}
}

func TestStore_CloseIdempotent(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.Close())
	// Second Close must not panic on the already-closed queue.
	assert.NoError(t, st.Close())
}
