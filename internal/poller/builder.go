// internal/poller/builder.go
package poller

import (
	"fmt"

	"github.com/tamzrod/modmon/internal/config"
	"github.com/tamzrod/modmon/internal/decode"
	pmodbus "github.com/tamzrod/modmon/internal/poller/modbus"
)

// Build constructs a Poller for one device and connects its transport.
// Startup is the only moment a transport error is fatal; after this,
// read failures stay on the poll cadence.
// The caller owns the returned closer.
func Build(d config.DeviceConfig, snk Sink) (*Poller, func() error, error) {
	client, err := pmodbus.New(pmodbus.Config{
		Mode:     d.Mode,
		Addr:     d.Addr,
		Port:     d.Port,
		BaudRate: d.BaudRate,
		DataBits: d.DataBits,
		Parity:   d.Parity,
		StopBits: d.StopBits,
		SlaveID:  d.SlaveID,
		Timeout:  d.Timeout.Std(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("device %q: %w", d.ID, err)
	}

	points := make([]Point, 0, len(d.Points))
	for _, pc := range d.Points {
		t, terr := decode.ParseType(pc.Type)
		if terr != nil {
			client.Close()
			return nil, nil, fmt.Errorf("device %q point %q: %w", d.ID, pc.Label, terr)
		}
		points = append(points, Point{
			Label:       pc.Label,
			Address:     pc.Address,
			Registers:   uint16(pc.Registers),
			Type:        t,
			Scale:       pc.Scale,
			Interval:    pc.Interval.Std(),
			Holding:     pc.RegisterKind == config.KindHolding,
			NaNSentinel: pc.NaNSentinel,
			Unit:        pc.Unit,
		})
	}

	p, err := New(Config{Device: d.ID, Points: points}, client, snk)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	return p, client.Close, nil
}
