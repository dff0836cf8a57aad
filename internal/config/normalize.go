// internal/config/normalize.go
package config

import (
	"time"

	"github.com/tamzrod/modmon/internal/decode"
)

// Defaults applied to fields the file leaves at zero.
const (
	DefaultTimeout  = Duration(time.Second)
	DefaultInterval = Duration(5 * time.Second)

	defaultBaudRate = 9600
	defaultDataBits = 8
	defaultParity   = "N"
	defaultStopBits = 1

	defaultMeasurement = "modbus"
	defaultTopicPrefix = "modmon"
	defaultClientID    = "modmon"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for di := range cfg.Devices {
		d := &cfg.Devices[di]

		// ------------------------------------------------------------
		// DEVICE DEFAULTS
		// ------------------------------------------------------------

		if d.Mode == "" {
			d.Mode = ModeTCP
		}
		if d.RegisterKind == "" {
			d.RegisterKind = KindInput
		}
		if d.Timeout == 0 {
			d.Timeout = DefaultTimeout
		}
		if d.Interval == 0 {
			d.Interval = DefaultInterval
		}

		if d.Mode == ModeRTU {
			if d.BaudRate == 0 {
				d.BaudRate = defaultBaudRate
			}
			if d.DataBits == 0 {
				d.DataBits = defaultDataBits
			}
			if d.Parity == "" {
				d.Parity = defaultParity
			}
			if d.StopBits == 0 {
				d.StopBits = defaultStopBits
			}
		}

		// ------------------------------------------------------------
		// POINT DEFAULTS (INHERIT FROM DEVICE)
		// ------------------------------------------------------------

		for pi := range d.Points {
			p := &d.Points[pi]

			if p.RegisterKind == "" {
				p.RegisterKind = d.RegisterKind
			}
			if p.Interval == 0 {
				p.Interval = d.Interval
			}
			if p.Scale == 0 {
				p.Scale = 1
			}
			if p.Registers == 0 {
				// Type already validated; the width is its to give.
				if t, err := decode.ParseType(p.Type); err == nil {
					p.Registers = t.RegisterCount()
				}
			}
		}
	}

	// ------------------------------------------------------------
	// SINK DEFAULTS
	// ------------------------------------------------------------

	// No sink configured at all falls back to CSV rows on stdout.
	if cfg.Sinks.CSV == nil &&
		cfg.Sinks.InfluxDB == nil &&
		cfg.Sinks.MQTT == nil &&
		cfg.Sinks.SQLite == nil {
		cfg.Sinks.CSV = &CSVSinkConfig{}
	}

	if s := cfg.Sinks.InfluxDB; s != nil && s.Measurement == "" {
		s.Measurement = defaultMeasurement
	}
	if s := cfg.Sinks.MQTT; s != nil {
		if s.TopicPrefix == "" {
			s.TopicPrefix = defaultTopicPrefix
		}
		if s.ClientID == "" {
			s.ClientID = defaultClientID
		}
	}
}
