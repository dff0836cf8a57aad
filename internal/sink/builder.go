// internal/sink/builder.go
package sink

import (
	"errors"

	"github.com/tamzrod/modmon/internal/config"
)

// Build assembles every configured sink into one destination that is
// safe to share across pollers. The caller owns Close on the result.
// Assumes config has been validated and normalized.
func Build(cfg config.SinkConfig) (Sink, error) {
	var sinks Multi

	fail := func(err error) (Sink, error) {
		sinks.Close()
		return nil, err
	}

	if cfg.CSV != nil {
		s, err := NewCSV(*cfg.CSV)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.InfluxDB != nil {
		s, err := NewInflux(*cfg.InfluxDB)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.MQTT != nil {
		s, err := NewMQTT(*cfg.MQTT)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.SQLite != nil {
		s, err := NewSQLite(*cfg.SQLite)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	if len(sinks) == 0 {
		return nil, errors.New("sink: no sinks configured")
	}

	return NewLocked(sinks), nil
}
