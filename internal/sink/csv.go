// internal/sink/csv.go
package sink

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/modmon/internal/config"
	"github.com/tamzrod/modmon/internal/poller"
)

var csvHeader = []string{"timestamp", "device", "point", "value", "unit"}

const dayFormat = "2006-01-02"

// CSV appends one row per observation to a file, or to stdout when no
// path is configured. Every row is flushed and synced before Write
// returns, so a crash loses at most the row being written.
type CSV struct {
	path  string
	daily bool

	f   *os.File // nil when writing to stdout
	w   *csv.Writer
	day string // day the open file belongs to, "" for stdout
}

func NewCSV(cfg config.CSVSinkConfig) (*CSV, error) {
	s := &CSV{path: cfg.Path, daily: cfg.Daily}

	if s.path == "" {
		s.w = csv.NewWriter(os.Stdout)
		if err := s.w.Write(csvHeader); err != nil {
			return nil, fmt.Errorf("csv sink: %w", err)
		}
		s.w.Flush()
		return s, s.w.Error()
	}

	if err := s.open(time.Now()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSV) Write(o poller.Observation) error {
	if s.daily && s.f != nil && o.At.Format(dayFormat) != s.day {
		if err := s.rotate(o.At); err != nil {
			return err
		}
	}

	value := ""
	if !math.IsNaN(o.Value) {
		value = strconv.FormatFloat(o.Value, 'f', -1, 64)
	}

	row := []string{o.At.Format(time.RFC3339), o.Device, o.Label, value, o.Unit}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}

	// Rows must survive a crash, not sit in the page cache.
	if s.f != nil {
		if err := s.f.Sync(); err != nil {
			return fmt.Errorf("csv sink: %w", err)
		}
	}
	return nil
}

func (s *CSV) Close() error {
	if s.w != nil {
		s.w.Flush()
	}
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}

// open opens (or creates) the file for the given time and writes the
// header when the file is empty.
func (s *CSV) open(at time.Time) error {
	day := at.Format(dayFormat)
	path := s.path
	if s.daily {
		path = datedPath(path, day)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("csv sink: %w", err)
	}

	s.f = f
	s.w = csv.NewWriter(f)
	s.day = day

	if st.Size() == 0 {
		if err := s.w.Write(csvHeader); err != nil {
			return fmt.Errorf("csv sink: %w", err)
		}
		s.w.Flush()
		if err := s.w.Error(); err != nil {
			return fmt.Errorf("csv sink: %w", err)
		}
	}
	return nil
}

func (s *CSV) rotate(at time.Time) error {
	s.w.Flush()
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}
	return s.open(at)
}

// datedPath inserts the day before the extension:
// readings.csv -> readings_2026-08-25.csv
func datedPath(path, day string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + day + ext
}
