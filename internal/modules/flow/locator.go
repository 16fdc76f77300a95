// README: Locator backed by device-reported position fixes.
package flow

import (
	"context"
	"sync"
	"time"

	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

// ReportedLocator satisfies Locator from fixes the device shell pushes in.
// A fix older than maxAge is as good as no fix; the booking screen would
// rather show "location unavailable" than drop the pin somewhere the rider
// left a while ago.
type ReportedLocator struct {
	mu     sync.Mutex
	pos    types.Coordinate
	at     time.Time
	maxAge time.Duration
	now    func() time.Time
}

func NewReportedLocator(maxAge time.Duration) *ReportedLocator {
	return &ReportedLocator{maxAge: maxAge, now: time.Now}
}

// Report records the device's current position.
func (l *ReportedLocator) Report(pos types.Coordinate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pos = pos
	l.at = l.now()
}

func (l *ReportedLocator) CurrentPosition(_ context.Context) (types.Coordinate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.at.IsZero() || l.now().Sub(l.at) > l.maxAge {
		return types.Coordinate{}, ErrNoRecentFix
	}
	return l.pos, nil
}
