// internal/sink/sink.go
package sink

import (
	"errors"
	"strings"
	"sync"

	"github.com/tamzrod/modmon/internal/poller"
)

// Sink is an observation destination with a lifecycle.
// Write must tolerate NaN values ("no data" sentinel readings).
type Sink interface {
	poller.Sink
	Close() error
}

// ---- MULTI ----

// Multi fans one observation out to several sinks.
// Every sink receives the row even when an earlier one fails.
type Multi []Sink

func (m Multi) Write(o poller.Observation) error {
	var errs []string
	for _, s := range m {
		if err := s.Write(o); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

func (m Multi) Close() error {
	var last error
	for _, s := range m {
		if err := s.Close(); err != nil {
			last = err
		}
	}
	return last
}

// ---- LOCKED ----

// Locked serializes access to a sink shared by several pollers.
type Locked struct {
	mu sync.Mutex
	s  Sink
}

func NewLocked(s Sink) *Locked {
	return &Locked{s: s}
}

func (l *Locked) Write(o poller.Observation) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Write(o)
}

func (l *Locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Close()
}
