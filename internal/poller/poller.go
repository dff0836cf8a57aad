// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tamzrod/modmon/internal/decode"
)

// Client abstracts the Modbus register reads the poller needs.
// The poller depends on geometry only.
type Client interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)   // FC 4
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Device string
	Points []Point
}

// Poller reads the points of one device on their individual schedules.
// One Poller owns one transport; nothing here is shared.
type Poller struct {
	cfg    Config
	client Client
	sink   Sink

	// Log and Board are optional collaborators. Set them before Run.
	Log   Logger
	Board Board
}

// Logger is the subset of *log.Logger the poller uses.
type Logger interface {
	Printf(format string, v ...any)
}

// New creates a poller with immutable config.
func New(cfg Config, client Client, sink Sink) (*Poller, error) {
	if cfg.Device == "" {
		return nil, errors.New("poller: device id required")
	}
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if sink == nil {
		return nil, errors.New("poller: sink required")
	}
	if len(cfg.Points) == 0 {
		return nil, errors.New("poller: at least one point required")
	}
	for _, pt := range cfg.Points {
		if pt.Interval <= 0 {
			return nil, fmt.Errorf("poller: point %q: interval must be > 0", pt.Label)
		}
		if pt.Registers == 0 {
			return nil, fmt.Errorf("poller: point %q: register count required", pt.Label)
		}
	}
	return &Poller{cfg: cfg, client: client, sink: sink}, nil
}

// PollOnce reads and records every point exactly once, in declaration
// order. Failures are logged and counted; later points still run.
// It returns the number of points that failed.
func (p *Poller) PollOnce() int {
	failed := 0
	for _, pt := range p.cfg.Points {
		if err := p.poll(pt, 1); err != nil {
			failed++
		}
	}
	return failed
}

// poll performs one read-decode-record attempt for a point.
// consecutive is the failure count this attempt would reach, used
// only for reporting.
func (p *Poller) poll(pt Point, consecutive int) error {
	obs, err := p.readPoint(pt)
	if err == nil {
		if werr := p.sink.Write(obs); werr != nil {
			err = &SinkError{Device: p.cfg.Device, Label: pt.Label, Err: werr}
		}
	}

	if err != nil {
		p.logf("poll %s/%s failed (%d consecutive): %v", p.cfg.Device, pt.Label, consecutive, err)
		if p.Board != nil {
			p.Board.Failed(p.cfg.Device, pt.Label, err, consecutive)
		}
		return err
	}

	if p.Board != nil {
		p.Board.Observed(obs)
	}
	return nil
}

// readPoint performs the register read and decode for one point.
// An Observation is produced only when both steps succeed.
func (p *Poller) readPoint(pt Point) (Observation, error) {
	var regs []uint16
	var err error

	if pt.Holding {
		regs, err = p.client.ReadHoldingRegisters(pt.Address, pt.Registers)
	} else {
		regs, err = p.client.ReadInputRegisters(pt.Address, pt.Registers)
	}
	if err != nil {
		return Observation{}, &TransportError{Device: p.cfg.Device, Label: pt.Label, Err: err}
	}
	if len(regs) != int(pt.Registers) {
		return Observation{}, &TransportError{
			Device: p.cfg.Device,
			Label:  pt.Label,
			Err:    fmt.Errorf("short response: got %d registers, want %d", len(regs), pt.Registers),
		}
	}

	val, err := decode.Decode(regs, pt.Type, pt.Scale)
	if err != nil {
		return Observation{}, err
	}
	if pt.NaNSentinel && decode.Sentinel(regs, pt.Type) {
		val = math.NaN()
	}

	return Observation{
		Device: p.cfg.Device,
		Label:  pt.Label,
		At:     time.Now(),
		Value:  val,
		Unit:   pt.Unit,
		Raw:    regs,
	}, nil
}

func (p *Poller) logf(format string, v ...any) {
	if p.Log != nil {
		p.Log.Printf(format, v...)
	}
}
