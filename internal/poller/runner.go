// internal/poller/runner.go
package poller

import (
	"container/heap"
	"context"
	"time"
)

// Run polls every point on its own cadence until ctx is canceled.
// One goroutine per device; a single read is in flight at any time.
// Every point is due immediately at startup.
func (p *Poller) Run(ctx context.Context) {
	now := time.Now()
	sched := make(schedule, 0, len(p.cfg.Points))
	for i, pt := range p.cfg.Points {
		sched = append(sched, &entry{pt: pt, due: now, seq: i})
	}
	heap.Init(&sched)

	for {
		next := sched[0]

		// A due time already in the past fires the timer immediately.
		timer := time.NewTimer(time.Until(next.due))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := p.poll(next.pt, next.consecutive+1); err != nil {
			next.consecutive++
		} else {
			next.consecutive = 0
		}

		// Fixed delay from completion, not from the previous due time.
		// A slow read pushes the next attempt out instead of bursting.
		next.due = time.Now().Add(next.pt.Interval)
		heap.Fix(&sched, 0)
	}
}
