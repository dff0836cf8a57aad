// internal/status/format.go
package status

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Pure rendering helpers for displays.
// No IO. No side effects.

// FormatValue renders a value with its unit. NaN renders as "n/a",
// matching the "no data" sentinel semantics.
func FormatValue(v float64, unit string) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// FormatAge renders the distance from t to now in one coarse unit.
// A zero time renders as "never".
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// FormatRaw renders registers as space-separated hex words.
func FormatRaw(regs []uint16) string {
	if len(regs) == 0 {
		return ""
	}
	parts := make([]string, len(regs))
	for i, r := range regs {
		parts[i] = fmt.Sprintf("%04x", r)
	}
	return strings.Join(parts, " ")
}
