// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements poller.Client on top of a goburrow Modbus handler.
// This adapter is geometry-only: it issues reads and unpacks raw
// responses into registers.
type Client struct {
	handler interface {
		Connect() error
		Close() error
	}
	mb modbus.Client
}

// Config is minimal transport config. Mode "rtu" opens a serial line;
// anything else dials Modbus TCP.
type Config struct {
	Mode string

	// TCP
	Addr string

	// RTU
	Port     string
	BaudRate int
	DataBits int
	Parity   string
	StopBits int

	SlaveID uint8
	Timeout time.Duration
}

// New creates a connected Modbus client.
// Connecting here is the one fail-fast moment; read errors later on
// are reported per call and the handler redials on its own.
func New(cfg Config) (*Client, error) {
	c := &Client{}

	switch cfg.Mode {
	case "rtu":
		if cfg.Port == "" {
			return nil, errors.New("modbus client: serial port required")
		}
		h := modbus.NewRTUClientHandler(cfg.Port)
		h.BaudRate = cfg.BaudRate
		h.DataBits = cfg.DataBits
		h.Parity = cfg.Parity
		h.StopBits = cfg.StopBits
		h.SlaveId = cfg.SlaveID
		h.Timeout = cfg.Timeout
		c.handler = h
		c.mb = modbus.NewClient(h)

	default:
		if cfg.Addr == "" {
			return nil, errors.New("modbus client: endpoint required")
		}
		h := modbus.NewTCPClientHandler(cfg.Addr)
		h.SlaveId = cfg.SlaveID
		h.Timeout = cfg.Timeout
		c.handler = h
		c.mb = modbus.NewClient(h)
	}

	if err := c.handler.Connect(); err != nil {
		return nil, fmt.Errorf("modbus client: connect: %w", err)
	}
	return c, nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ---- poller.Client interface ----

func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	raw, err := c.mb.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return checkedRegisters(raw, qty)
}

func (c *Client) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	raw, err := c.mb.ReadInputRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return checkedRegisters(raw, qty)
}

// ---- helpers (pure geometry) ----

func checkedRegisters(data []byte, qty uint16) ([]uint16, error) {
	if len(data) != int(qty)*2 {
		return nil, fmt.Errorf("modbus: response has %d bytes, want %d", len(data), int(qty)*2)
	}
	return unpackRegisters(data), nil
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
