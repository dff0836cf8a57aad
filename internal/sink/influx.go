// internal/sink/influx.go
package sink

import (
	"fmt"
	"math"

	client "github.com/influxdata/influxdb1-client/v2"

	"github.com/tamzrod/modmon/internal/config"
	"github.com/tamzrod/modmon/internal/poller"
)

// Influx writes observations as points tagged by device and point
// label. Sentinel readings carry no number and are skipped.
type Influx struct {
	c           client.Client
	database    string
	measurement string
}

func NewInflux(cfg config.InfluxSinkConfig) (*Influx, error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("influx sink: %w", err)
	}
	return &Influx{
		c:           c,
		database:    cfg.Database,
		measurement: cfg.Measurement,
	}, nil
}

func (s *Influx) Write(o poller.Observation) error {
	if math.IsNaN(o.Value) {
		return nil
	}

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  s.database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("influx sink: %w", err)
	}

	tags := map[string]string{
		"device": o.Device,
		"point":  o.Label,
	}
	if o.Unit != "" {
		tags["unit"] = o.Unit
	}

	pt, err := client.NewPoint(
		s.measurement,
		tags,
		map[string]interface{}{"value": o.Value},
		o.At,
	)
	if err != nil {
		return fmt.Errorf("influx sink: %w", err)
	}
	bp.AddPoint(pt)

	if err := s.c.Write(bp); err != nil {
		return fmt.Errorf("influx sink: %w", err)
	}
	return nil
}

func (s *Influx) Close() error {
	return s.c.Close()
}
