// internal/config/validate.go
package config

import (
	"fmt"
	"math"
	"net"

	"github.com/tamzrod/modmon/internal/decode"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	if len(cfg.Devices) == 0 {
		return fmt.Errorf("config: no devices defined")
	}

	// ------------------------------------------------------------
	// DEVICE AND TRANSPORT VALIDATION
	// ------------------------------------------------------------

	deviceIDs := make(map[string]struct{})
	labels := make(map[string]string) // label -> owning device

	for _, d := range cfg.Devices {
		if d.ID == "" {
			return fmt.Errorf("config: device with empty id")
		}
		if _, exists := deviceIDs[d.ID]; exists {
			return fmt.Errorf("config: duplicate device id %q", d.ID)
		}
		deviceIDs[d.ID] = struct{}{}

		// Mode is defaulted later; validate the effective value.
		mode := d.Mode
		if mode == "" {
			mode = ModeTCP
		}

		switch mode {
		case ModeTCP:
			if d.Addr == "" {
				return fmt.Errorf("device %q: tcp mode requires addr", d.ID)
			}
			if _, _, err := net.SplitHostPort(d.Addr); err != nil {
				return fmt.Errorf("device %q: addr %q is not host:port: %w", d.ID, d.Addr, err)
			}
		case ModeRTU:
			if d.Port == "" {
				return fmt.Errorf("device %q: rtu mode requires port", d.ID)
			}
			switch d.Parity {
			case "", "N", "E", "O":
			default:
				return fmt.Errorf("device %q: parity must be N, E or O, got %q", d.ID, d.Parity)
			}
			switch d.DataBits {
			case 0, 7, 8:
			default:
				return fmt.Errorf("device %q: data_bits must be 7 or 8, got %d", d.ID, d.DataBits)
			}
			switch d.StopBits {
			case 0, 1, 2:
			default:
				return fmt.Errorf("device %q: stop_bits must be 1 or 2, got %d", d.ID, d.StopBits)
			}
			if d.BaudRate < 0 {
				return fmt.Errorf("device %q: negative baud_rate %d", d.ID, d.BaudRate)
			}
		default:
			return fmt.Errorf("device %q: mode must be tcp or rtu, got %q", d.ID, d.Mode)
		}

		if d.Timeout < 0 {
			return fmt.Errorf("device %q: negative timeout", d.ID)
		}
		if d.Interval < 0 {
			return fmt.Errorf("device %q: negative interval", d.ID)
		}
		if err := validKind(d.RegisterKind); err != nil {
			return fmt.Errorf("device %q: %w", d.ID, err)
		}

		// ------------------------------------------------------------
		// POINT VALIDATION
		// ------------------------------------------------------------

		if len(d.Points) == 0 {
			return fmt.Errorf("device %q: no points defined", d.ID)
		}

		for _, p := range d.Points {
			if p.Label == "" {
				return fmt.Errorf("device %q: point with empty label", d.ID)
			}
			if prev, exists := labels[p.Label]; exists {
				return fmt.Errorf(
					"config: label %q used by devices %q and %q",
					p.Label,
					prev,
					d.ID,
				)
			}
			labels[p.Label] = d.ID

			t, err := decode.ParseType(p.Type)
			if err != nil {
				return fmt.Errorf("device %q point %q: %w", d.ID, p.Label, err)
			}

			// Register count is derived from the type when omitted.
			// A stated count that disagrees with the type is a defect
			// in the file, not something to paper over.
			if p.Registers < 0 {
				return fmt.Errorf("device %q point %q: negative registers", d.ID, p.Label)
			}
			if p.Registers != 0 && p.Registers != t.RegisterCount() {
				return fmt.Errorf(
					"device %q point %q: type %s needs %d registers, got %d",
					d.ID,
					p.Label,
					t,
					t.RegisterCount(),
					p.Registers,
				)
			}

			if math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) {
				return fmt.Errorf("device %q point %q: scale must be finite", d.ID, p.Label)
			}
			if p.Interval < 0 {
				return fmt.Errorf("device %q point %q: negative interval", d.ID, p.Label)
			}
			if err := validKind(p.RegisterKind); err != nil {
				return fmt.Errorf("device %q point %q: %w", d.ID, p.Label, err)
			}
		}
	}

	// ------------------------------------------------------------
	// SINK VALIDATION
	// ------------------------------------------------------------

	if s := cfg.Sinks.InfluxDB; s != nil {
		if s.URL == "" {
			return fmt.Errorf("sinks.influxdb: url is required")
		}
		if s.Database == "" {
			return fmt.Errorf("sinks.influxdb: database is required")
		}
	}
	if s := cfg.Sinks.MQTT; s != nil {
		if s.Broker == "" {
			return fmt.Errorf("sinks.mqtt: broker is required")
		}
		if s.QoS > 2 {
			return fmt.Errorf("sinks.mqtt: qos must be 0, 1 or 2, got %d", s.QoS)
		}
	}
	if s := cfg.Sinks.SQLite; s != nil {
		if s.Path == "" {
			return fmt.Errorf("sinks.sqlite: path is required")
		}
	}

	return nil
}

func validKind(kind string) error {
	switch kind {
	case "", KindInput, KindHolding:
		return nil
	default:
		return fmt.Errorf("register_kind must be input or holding, got %q", kind)
	}
}
