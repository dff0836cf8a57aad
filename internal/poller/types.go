// internal/poller/types.go
package poller

import (
	"fmt"
	"time"

	"github.com/tamzrod/modmon/internal/decode"
)

// Point describes one monitored value. Immutable after construction.
type Point struct {
	Label     string
	Address   uint16
	Registers uint16
	Type      decode.Type
	Scale     float64
	Interval  time.Duration

	// Holding selects FC3 instead of the default FC4.
	Holding bool

	// NaNSentinel maps the type's "no data" raw pattern to NaN
	// instead of reporting it as a number.
	NaNSentinel bool

	Unit string
}

// Observation is one successfully read and decoded value.
type Observation struct {
	Device string
	Label  string
	At     time.Time

	// Value is the scaled engineering value. NaN means the device
	// reported its "no data" pattern for this point.
	Value float64

	Unit string

	// Raw holds the registers exactly as read, most significant first.
	Raw []uint16
}

// Sink receives observations as they are produced.
// Write is called from the scheduler goroutine; a shared sink must
// serialize internally.
type Sink interface {
	Write(Observation) error
}

// Board receives per-point health updates. Optional.
type Board interface {
	Observed(Observation)
	Failed(device, label string, err error, consecutive int)
}

// ---- error classes ----

// TransportError marks a failed or malformed register read.
// Transient: the point stays on its normal cadence.
type TransportError struct {
	Device string
	Label  string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s/%s: %v", e.Device, e.Label, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SinkError marks a failed observation write. The read itself
// succeeded; polling continues.
type SinkError struct {
	Device string
	Label  string
	Err    error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink: %s/%s: %v", e.Device, e.Label, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
