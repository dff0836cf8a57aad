// internal/status/board.go
package status

import (
	"sync"
	"time"

	"github.com/tamzrod/modmon/internal/poller"
)

// Board collects per-point health from any number of pollers.
// All methods are safe for concurrent use.
type Board struct {
	mu     sync.Mutex
	points map[string]*PointStatus
	order  []string
}

func NewBoard() *Board {
	return &Board{points: make(map[string]*PointStatus)}
}

// Register announces a point before its first poll, so displays show
// pending points instead of an empty board.
func (b *Board) Register(device, label, unit string, interval time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := b.ensure(device, label)
	st.Unit = unit
	st.Interval = interval
}

// Observed records a successful observation.
func (b *Board) Observed(o poller.Observation) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := b.ensure(o.Device, o.Label)
	st.Value = o.Value
	st.Raw = append([]uint16(nil), o.Raw...)
	st.At = o.At
	if o.Unit != "" {
		st.Unit = o.Unit
	}
	st.Consecutive = 0
	st.LastError = ""
}

// Failed records a failed poll attempt.
func (b *Board) Failed(device, label string, err error, consecutive int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := b.ensure(device, label)
	st.LastError = err.Error()
	st.ErrorAt = time.Now()
	st.Consecutive = consecutive
}

// Snapshot returns every point in registration order with health
// computed against the current time.
func (b *Board) Snapshot() []PointStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	out := make([]PointStatus, 0, len(b.order))
	for _, key := range b.order {
		st := *b.points[key]
		st.Raw = append([]uint16(nil), st.Raw...)
		st.Health = health(&st, now)
		out = append(out, st)
	}
	return out
}

// ensure is called with the lock held.
func (b *Board) ensure(device, label string) *PointStatus {
	key := device + "/" + label
	if st, ok := b.points[key]; ok {
		return st
	}
	st := &PointStatus{Device: device, Label: label}
	b.points[key] = st
	b.order = append(b.order, key)
	return st
}

func health(st *PointStatus, now time.Time) Health {
	switch {
	case st.Consecutive > 0:
		return HealthError
	case st.At.IsZero():
		return HealthUnknown
	case st.Interval > 0 && now.Sub(st.At) > StaleFactor*st.Interval:
		return HealthStale
	default:
		return HealthOK
	}
}
