// internal/sink/sqlite_test.go
package sink

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/tamzrod/modmon/internal/config"
)

func TestSQLite_WritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.db")

	s, err := NewSQLite(config.SQLiteSinkConfig{Path: path})
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}

	if err := s.Write(sampleObs("ac_power")); err != nil {
		t.Fatalf("write: %v", err)
	}

	missing := sampleObs("dc_power")
	missing.Value = math.NaN()
	if err := s.Write(missing); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT point, value, raw FROM observations ORDER BY id")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	type row struct {
		point string
		value sql.NullFloat64
		raw   string
	}
	var got []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.point, &r.value, &r.raw); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, r)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("rows=%d, want 2", len(got))
	}
	if got[0].point != "ac_power" || !got[0].value.Valid || got[0].value.Float64 != 230.5 {
		t.Fatalf("row 0=%+v", got[0])
	}
	if got[0].raw != "0000 08fc" {
		t.Fatalf("raw=%q, want hex words", got[0].raw)
	}

	// Sentinel reading stores NULL, not a fake number.
	if got[1].point != "dc_power" || got[1].value.Valid {
		t.Fatalf("row 1=%+v, want NULL value", got[1])
	}
}

func TestSQLite_SchemaSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.db")

	s, err := NewSQLite(config.SQLiteSinkConfig{Path: path})
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := s.Write(sampleObs("ac_power")); err != nil {
		t.Fatalf("write: %v", err)
	}
	s.Close()

	s, err = NewSQLite(config.SQLiteSinkConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := s.Write(sampleObs("dc_power")); err != nil {
		t.Fatalf("write after reopen: %v", err)
	}
	s.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM observations").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count=%d, want 2", n)
	}
}
