// README: Parallel latitude/longitude region animation with a joined completion callback.
package mapsync

import (
	"context"
	"sync"
	"time"
)

// DefaultAnimationDuration matches the mobile client's region transitions.
const DefaultAnimationDuration = 500 * time.Millisecond

// RegionAnimator models the two parallel axis animations the map runs when
// the region moves. The latitude and longitude transitions complete
// independently; the completion callback fires exactly once, after the later
// of the two, never before either.
type RegionAnimator struct {
	LatDuration time.Duration
	LngDuration time.Duration
}

func NewRegionAnimator(d time.Duration) *RegionAnimator {
	if d <= 0 {
		d = DefaultAnimationDuration
	}
	return &RegionAnimator{LatDuration: d, LngDuration: d}
}

// Animate starts both axis transitions and invokes done once both have
// settled. A cancelled context abandons the animation without invoking done.
// Animate returns immediately; the join runs on its own goroutine.
func (a *RegionAnimator) Animate(ctx context.Context, done func()) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		wait(ctx, a.LatDuration)
	}()
	go func() {
		defer wg.Done()
		wait(ctx, a.LngDuration)
	}()
	go func() {
		wg.Wait()
		if ctx.Err() != nil {
			return
		}
		if done != nil {
			done()
		}
	}()
}

func wait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
