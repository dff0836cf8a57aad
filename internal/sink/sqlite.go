// internal/sink/sqlite.go
package sink

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tamzrod/modmon/internal/config"
	"github.com/tamzrod/modmon/internal/poller"
	"github.com/tamzrod/modmon/internal/status"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS observations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    device TEXT NOT NULL,
    point TEXT NOT NULL,
    value REAL,
    unit TEXT,
    raw TEXT
);`

const insertSQL = `
INSERT INTO observations(timestamp, device, point, value, unit, raw)
VALUES(?, ?, ?, ?, ?, ?)`

// SQLite appends observations to a local database file. Sentinel
// readings are stored with a NULL value; the raw registers are kept
// as hex words either way.
type SQLite struct {
	db  *sql.DB
	ins *sql.Stmt
}

func NewSQLite(cfg config.SQLiteSinkConfig) (*SQLite, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite sink: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite sink: %w", err)
	}
	ins, err := db.Prepare(insertSQL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite sink: %w", err)
	}
	return &SQLite{db: db, ins: ins}, nil
}

func (s *SQLite) Write(o poller.Observation) error {
	var value interface{}
	if !math.IsNaN(o.Value) {
		value = o.Value
	}

	_, err := s.ins.Exec(
		o.At.Format(time.RFC3339),
		o.Device,
		o.Label,
		value,
		o.Unit,
		status.FormatRaw(o.Raw),
	)
	if err != nil {
		return fmt.Errorf("sqlite sink: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	if s.ins != nil {
		s.ins.Close()
	}
	return s.db.Close()
}
