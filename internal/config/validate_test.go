// internal/config/validate_test.go
package config

import (
	"math"
	"testing"
)

// helper to build a single-device config quickly
func tcpDevice(id, label, typ string) DeviceConfig {
	return DeviceConfig{
		ID:   id,
		Mode: ModeTCP,
		Addr: "10.0.0.5:502",
		Points: []PointConfig{
			{Label: label, Address: 30775, Type: typ},
		},
	}
}

// ---- tests ----

func TestValidate_MinimalTCPConfig(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{tcpDevice("inverter", "ac_power", "int32")},
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NoDevices(t *testing.T) {
	cfg := &Config{}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected no-devices error, got nil")
	}
}

func TestValidate_EmptyModeAcceptedAsTCP(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "int32")
	d.Mode = ""
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DuplicateDeviceID(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{
			tcpDevice("inverter", "ac_power", "int32"),
			tcpDevice("inverter", "dc_power", "int32"),
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate id error, got nil")
	}
}

func TestValidate_DuplicateLabelAcrossDevices(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{
			tcpDevice("inverter", "ac_power", "int32"),
			tcpDevice("meter", "ac_power", "int32"),
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate label error, got nil")
	}
}

func TestValidate_NoPoints(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "int32")
	d.Points = nil
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected no-points error, got nil")
	}
}

func TestValidate_UnknownType(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{tcpDevice("inverter", "ac_power", "str32")},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected unknown type error, got nil")
	}
}

func TestValidate_RegisterWidthMismatch(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "uint32")
	d.Points[0].Registers = 1 // uint32 needs 2
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected width mismatch error, got nil")
	}
}

func TestValidate_RegisterWidthExplicitMatch(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "uint32")
	d.Points[0].Registers = 2
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_TCPRequiresAddr(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "int32")
	d.Addr = ""
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected missing addr error, got nil")
	}
}

func TestValidate_AddrMustBeHostPort(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "int32")
	d.Addr = "10.0.0.5"
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected host:port error, got nil")
	}
}

func TestValidate_RTURequiresPort(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{
			{
				ID:   "meter",
				Mode: ModeRTU,
				Points: []PointConfig{
					{Label: "voltage", Address: 0, Type: "uint16"},
				},
			},
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected missing port error, got nil")
	}
}

func TestValidate_BadParity(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{
			{
				ID:     "meter",
				Mode:   ModeRTU,
				Port:   "/dev/ttyUSB0",
				Parity: "X",
				Points: []PointConfig{
					{Label: "voltage", Address: 0, Type: "uint16"},
				},
			},
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected parity error, got nil")
	}
}

func TestValidate_BadMode(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "int32")
	d.Mode = "udp"
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected mode error, got nil")
	}
}

func TestValidate_BadRegisterKind(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "int32")
	d.Points[0].RegisterKind = "coil"
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected register_kind error, got nil")
	}
}

func TestValidate_ScaleMustBeFinite(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "int32")
	d.Points[0].Scale = math.NaN()
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected scale error, got nil")
	}
}

func TestValidate_NegativeInterval(t *testing.T) {
	d := tcpDevice("inverter", "ac_power", "int32")
	d.Points[0].Interval = Duration(-1)
	cfg := &Config{Devices: []DeviceConfig{d}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected interval error, got nil")
	}
}

func TestValidate_InfluxRequiresDatabase(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{tcpDevice("inverter", "ac_power", "int32")},
		Sinks: SinkConfig{
			InfluxDB: &InfluxSinkConfig{URL: "http://localhost:8086"},
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected database error, got nil")
	}
}

func TestValidate_MQTTRequiresBroker(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{tcpDevice("inverter", "ac_power", "int32")},
		Sinks: SinkConfig{
			MQTT: &MQTTSinkConfig{},
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected broker error, got nil")
	}
}

func TestValidate_MQTTQoSRange(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{tcpDevice("inverter", "ac_power", "int32")},
		Sinks: SinkConfig{
			MQTT: &MQTTSinkConfig{Broker: "tcp://localhost:1883", QoS: 3},
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected qos error, got nil")
	}
}

func TestValidate_SQLiteRequiresPath(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{tcpDevice("inverter", "ac_power", "int32")},
		Sinks: SinkConfig{
			SQLite: &SQLiteSinkConfig{},
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected path error, got nil")
	}
}
