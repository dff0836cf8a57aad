// internal/status/board_test.go
package status

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tamzrod/modmon/internal/poller"
)

func obs(device, label string, value float64) poller.Observation {
	return poller.Observation{
		Device: device,
		Label:  label,
		Value:  value,
		At:     time.Now(),
		Raw:    []uint16{0x1234},
	}
}

// ---- tests ----

func TestBoard_RegisteredPointStartsUnknown(t *testing.T) {
	b := NewBoard()
	b.Register("inverter", "ac_power", "W", 5*time.Second)

	snap := b.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot len=%d, want 1", len(snap))
	}
	st := snap[0]
	if st.Health != HealthUnknown {
		t.Fatalf("health=%v, want unknown", st.Health)
	}
	if st.Unit != "W" || st.Interval != 5*time.Second {
		t.Fatalf("registration fields lost: %+v", st)
	}
}

func TestBoard_ObservedBecomesOK(t *testing.T) {
	b := NewBoard()
	b.Register("inverter", "ac_power", "W", time.Hour)
	b.Observed(obs("inverter", "ac_power", 230.5))

	st := b.Snapshot()[0]
	if st.Health != HealthOK {
		t.Fatalf("health=%v, want ok", st.Health)
	}
	if st.Value != 230.5 {
		t.Fatalf("value=%v, want 230.5", st.Value)
	}
	if len(st.Raw) != 1 || st.Raw[0] != 0x1234 {
		t.Fatalf("raw=%v, want [1234]", st.Raw)
	}
}

func TestBoard_FailedBecomesError(t *testing.T) {
	b := NewBoard()
	b.Register("inverter", "ac_power", "W", time.Hour)
	b.Failed("inverter", "ac_power", errors.New("timeout"), 2)

	st := b.Snapshot()[0]
	if st.Health != HealthError {
		t.Fatalf("health=%v, want error", st.Health)
	}
	if st.Consecutive != 2 || st.LastError != "timeout" {
		t.Fatalf("failure fields wrong: %+v", st)
	}
}

func TestBoard_SuccessClearsError(t *testing.T) {
	b := NewBoard()
	b.Failed("inverter", "ac_power", errors.New("timeout"), 3)
	b.Observed(obs("inverter", "ac_power", 1))

	st := b.Snapshot()[0]
	if st.Health != HealthOK || st.Consecutive != 0 || st.LastError != "" {
		t.Fatalf("error fields must clear on success: %+v", st)
	}
}

func TestBoard_StaleAfterMissedIntervals(t *testing.T) {
	b := NewBoard()
	b.Register("inverter", "ac_power", "W", 10*time.Millisecond)
	b.Observed(obs("inverter", "ac_power", 1))

	time.Sleep(50 * time.Millisecond) // > 3 intervals

	st := b.Snapshot()[0]
	if st.Health != HealthStale {
		t.Fatalf("health=%v, want stale", st.Health)
	}
}

func TestBoard_RegistrationOrderPreserved(t *testing.T) {
	b := NewBoard()
	b.Register("d", "c", "", time.Second)
	b.Register("d", "a", "", time.Second)
	b.Register("d", "b", "", time.Second)

	snap := b.Snapshot()
	want := []string{"c", "a", "b"}
	for i, label := range want {
		if snap[i].Label != label {
			t.Fatalf("order wrong at %d: got %q, want %q", i, snap[i].Label, label)
		}
	}
}

func TestBoard_UnregisteredEventCreatesPoint(t *testing.T) {
	b := NewBoard()
	b.Observed(obs("meter", "voltage", 241.2))

	snap := b.Snapshot()
	if len(snap) != 1 || snap[0].Label != "voltage" {
		t.Fatalf("snapshot=%+v, want auto-created voltage", snap)
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(230.5, "V"); got != "230.5 V" {
		t.Fatalf("got %q", got)
	}
	if got := FormatValue(42, ""); got != "42" {
		t.Fatalf("got %q", got)
	}
	if got := FormatValue(math.NaN(), "W"); got != "n/a" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Now()
	if got := FormatAge(time.Time{}, now); got != "never" {
		t.Fatalf("got %q", got)
	}
	if got := FormatAge(now.Add(-500*time.Millisecond), now); got != "now" {
		t.Fatalf("got %q", got)
	}
	if got := FormatAge(now.Add(-30*time.Second), now); got != "30s ago" {
		t.Fatalf("got %q", got)
	}
	if got := FormatAge(now.Add(-5*time.Minute), now); got != "5m ago" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatRaw(t *testing.T) {
	if got := FormatRaw([]uint16{0x0000, 0x08FC}); got != "0000 08fc" {
		t.Fatalf("got %q", got)
	}
	if got := FormatRaw(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}
