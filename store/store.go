// Package store provides an append-only SQLite journal of measurements and
// alarms (sequence-of-events log).
//
// Writes are decoupled from the acquisition worker through a bounded queue
// served by a dedicated writer goroutine: the polling cycle must never
// block on persistence. When the queue is full, new events are dropped
// with a warning. The journal is not a history rehydration source; channel
// history lives in memory only and does not survive restarts.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/optigauge/go-grating/gauge"
	"github.com/optigauge/go-grating/logger"
)

// DefaultQueueSize is the event queue capacity.
const DefaultQueueSize = 256

const schemaSQL = `
CREATE TABLE IF NOT EXISTS measurements (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    channel_id INTEGER NOT NULL,
    parameter TEXT NOT NULL,
    average REAL NOT NULL,
    range_value REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS alarms (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    message TEXT NOT NULL
);`

const timestampLayout = "2006-01-02 15:04:05.000"

// event is the internal queue element; exactly one of the payloads is set.
type event struct {
	timestamp time.Time

	// measurement payload
	channelID int
	sample    gauge.Sample
	isSample  bool

	// alarm payload
	message string
}

// Store journals measurements and alarms into a SQLite database file.
type Store struct {
	db     *sql.DB
	logger logger.Logger

	events chan event

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Open opens (creating if needed) the journal database at path and starts
// the writer goroutine.
func Open(path string, l logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	if l == nil {
		l = logger.GetLogger()
	}

	st := &Store{
		db:     db,
		logger: l.With("journal", path),
		events: make(chan event, DefaultQueueSize),
	}

	st.wg.Add(1)
	go st.writer()

	return st, nil
}

// LogMeasurement queues one sample for journaling. It never blocks: when
// the queue is full the event is dropped with a warning.
func (st *Store) LogMeasurement(channelID int, sample gauge.Sample) {
	st.enqueue(event{
		timestamp: sample.Timestamp,
		channelID: channelID,
		sample:    sample,
		isSample:  true,
	})
}

// LogAlarm queues one alarm message for journaling. It never blocks.
func (st *Store) LogAlarm(message string) {
	st.enqueue(event{timestamp: time.Now(), message: message})
}

func (st *Store) enqueue(ev event) {
	select {
	case st.events <- ev:
	default:
		st.logger.Warn("event queue full, dropping event")
	}
}

// Close drains the queue, stops the writer, and closes the database.
func (st *Store) Close() error {
	st.closeOnce.Do(func() {
		close(st.events)
	})
	st.wg.Wait()

	return st.db.Close()
}

// writer serves the event queue until it is closed and drained.
func (st *Store) writer() {
	defer st.wg.Done()

	for ev := range st.events {
		if ev.isSample {
			st.writeMeasurement(ev)
		} else {
			st.writeAlarm(ev)
		}
	}
}

func (st *Store) writeMeasurement(ev event) {
	ts := ev.timestamp.Format(timestampLayout)

	for _, param := range gauge.Parameters() {
		r := ev.sample.Reading(param)
		_, err := st.db.Exec(
			"INSERT INTO measurements(timestamp, channel_id, parameter, average, range_value) VALUES(?, ?, ?, ?, ?)",
			ts, ev.channelID, string(param), r.Average, r.Range,
		)
		if err != nil {
			st.logger.Error("measurement insert failed", "channel", ev.channelID, "parameter", param, "error", err)
			return
		}
	}
}

func (st *Store) writeAlarm(ev event) {
	_, err := st.db.Exec(
		"INSERT INTO alarms(timestamp, message) VALUES(?, ?)",
		ev.timestamp.Format(timestampLayout), ev.message,
	)
	if err != nil {
		st.logger.Error("alarm insert failed", "error", err)
	}
}
