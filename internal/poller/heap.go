// internal/poller/heap.go
package poller

import "time"

// entry is the mutable schedule state for one point.
type entry struct {
	pt          Point
	due         time.Time
	seq         int // declaration order
	consecutive int
}

// schedule is a min-heap over due time. Ties go to the point declared
// first, so points sharing a cadence always poll in declaration order.
type schedule []*entry

func (s schedule) Len() int { return len(s) }

func (s schedule) Less(i, j int) bool {
	if s[i].due.Equal(s[j].due) {
		return s[i].seq < s[j].seq
	}
	return s[i].due.Before(s[j].due)
}

func (s schedule) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s *schedule) Push(x any) { *s = append(*s, x.(*entry)) }

func (s *schedule) Pop() any {
	old := *s
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return e
}
