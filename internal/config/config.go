// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Devices []DeviceConfig `yaml:"devices" toml:"devices"`
	Sinks   SinkConfig     `yaml:"sinks" toml:"sinks"`
}

// Transport modes and register kinds accepted in configuration files.
const (
	ModeTCP = "tcp"
	ModeRTU = "rtu"

	KindInput   = "input"
	KindHolding = "holding"
)

// ---- DEVICE ----

type DeviceConfig struct {
	ID   string `yaml:"id" toml:"id"`
	Mode string `yaml:"mode" toml:"mode"` // "tcp" or "rtu"

	// TCP transport
	Addr string `yaml:"addr" toml:"addr"` // host:port

	// RTU transport
	Port     string `yaml:"port" toml:"port"` // e.g. /dev/ttyUSB0
	BaudRate int    `yaml:"baud_rate" toml:"baud_rate"`
	DataBits int    `yaml:"data_bits" toml:"data_bits"`
	Parity   string `yaml:"parity" toml:"parity"` // "N", "E", "O"
	StopBits int    `yaml:"stop_bits" toml:"stop_bits"`

	SlaveID uint8    `yaml:"slave_id" toml:"slave_id"`
	Timeout Duration `yaml:"timeout" toml:"timeout"`

	// RegisterKind selects the read function for every point of the
	// device unless a point overrides it: "input" (FC4) or "holding" (FC3).
	RegisterKind string `yaml:"register_kind" toml:"register_kind"`

	// Interval is the default poll interval for points that set none.
	Interval Duration `yaml:"interval" toml:"interval"`

	Points []PointConfig `yaml:"points" toml:"points"`
}

// ---- POINT ----

type PointConfig struct {
	Label   string `yaml:"label" toml:"label"`
	Address uint16 `yaml:"address" toml:"address"`

	// Registers is the block width in 16-bit registers. Zero means
	// "derive from type"; a non-zero value must match the type width.
	Registers int `yaml:"registers" toml:"registers"`

	Type  string  `yaml:"type" toml:"type"`
	Scale float64 `yaml:"scale" toml:"scale"`

	Interval     Duration `yaml:"interval" toml:"interval"`
	RegisterKind string   `yaml:"register_kind" toml:"register_kind"`

	Unit        string `yaml:"unit" toml:"unit"`
	Description string `yaml:"description" toml:"description"`

	// NaNSentinel treats the type's "no data" raw pattern (signed
	// minimum, unsigned all-ones) as a missing value: the observation
	// is recorded with an empty value instead of a number.
	NaNSentinel bool `yaml:"nan_sentinel" toml:"nan_sentinel"`
}

// ---- SINKS ----

// A sink section being present in the file enables that sink.
type SinkConfig struct {
	CSV      *CSVSinkConfig    `yaml:"csv" toml:"csv"`
	InfluxDB *InfluxSinkConfig `yaml:"influxdb" toml:"influxdb"`
	MQTT     *MQTTSinkConfig   `yaml:"mqtt" toml:"mqtt"`
	SQLite   *SQLiteSinkConfig `yaml:"sqlite" toml:"sqlite"`
}

type CSVSinkConfig struct {
	// Path of the log file. Empty writes rows to stdout, which keeps
	// ad-hoc runs usable without any file setup.
	Path string `yaml:"path" toml:"path"`

	// Daily starts a fresh file per calendar day, appending _YYYY-MM-DD
	// to the name before the extension.
	Daily bool `yaml:"daily" toml:"daily"`
}

type InfluxSinkConfig struct {
	URL         string `yaml:"url" toml:"url"`
	Username    string `yaml:"username" toml:"username"`
	Password    string `yaml:"password" toml:"password"`
	Database    string `yaml:"database" toml:"database"`
	Measurement string `yaml:"measurement" toml:"measurement"`
}

type MQTTSinkConfig struct {
	Broker      string `yaml:"broker" toml:"broker"` // e.g. tcp://host:1883
	ClientID    string `yaml:"client_id" toml:"client_id"`
	Username    string `yaml:"username" toml:"username"`
	Password    string `yaml:"password" toml:"password"`
	TopicPrefix string `yaml:"topic_prefix" toml:"topic_prefix"`
	QoS         uint8  `yaml:"qos" toml:"qos"`
	Retain      bool   `yaml:"retain" toml:"retain"`
}

type SQLiteSinkConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// ---- DURATION ----

// Duration accepts Go duration strings ("5s", "250ms") in both YAML
// and TOML files.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML exists because yaml.v3 resolves scalars itself and does
// not consult encoding.TextUnmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("config: duration must be a string like \"5s\": %w", err)
	}
	return d.UnmarshalText([]byte(s))
}
