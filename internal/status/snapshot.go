// internal/status/snapshot.go
package status

import "time"

// PointStatus is the current state of one monitored point.
// It contains no logic and no memory of the past beyond current state.
type PointStatus struct {
	Device   string
	Label    string
	Unit     string
	Interval time.Duration

	Health Health

	// Last successful observation.
	Value float64
	Raw   []uint16
	At    time.Time

	// Last failure.
	LastError   string
	ErrorAt     time.Time
	Consecutive int
}
