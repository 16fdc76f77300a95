package flow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

func TestReportedLocator(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewReportedLocator(time.Second)
	l.now = func() time.Time { return clock }

	t.Run("no fix yet", func(t *testing.T) {
		_, err := l.CurrentPosition(context.Background())
		assert.ErrorIs(t, err, ErrNoRecentFix)
	})

	t.Run("fresh fix", func(t *testing.T) {
		l.Report(types.Coordinate{Lat: 42.35, Lng: -71.05})
		pos, err := l.CurrentPosition(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42.35, pos.Lat)
	})

	t.Run("stale fix", func(t *testing.T) {
		clock = clock.Add(2 * time.Second)
		_, err := l.CurrentPosition(context.Background())
		assert.ErrorIs(t, err, ErrNoRecentFix)
	})
}
