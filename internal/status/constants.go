// internal/status/constants.go
package status

// Health of a monitored point as last seen by its poller.
type Health uint8

// ---- HEALTH CODES ----

// HealthUnknown represents a point that has not been polled yet.
const HealthUnknown Health = 0

// HealthOK represents a point with a fresh successful observation.
const HealthOK Health = 1

// HealthError represents a point whose last poll attempt failed.
const HealthError Health = 2

// HealthStale represents a point whose last success is older than
// StaleFactor poll intervals.
const HealthStale Health = 3

// StaleFactor is the number of missed intervals after which a point
// counts as stale. Not configurable.
const StaleFactor = 3

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	default:
		return "unknown"
	}
}
