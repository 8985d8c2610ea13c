package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwise/parkd/internal/domain"
)

func TestRetentionSweep(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive thresholds", func(t *testing.T) {
		t.Parallel()
		ret := NewRetention(&mockEventRepo{}, NewRecorder(&mockEventRepo{}))

		for _, days := range []int{0, -30} {
			_, err := ret.Sweep(context.Background(), days, "admin-1")
			assert.ErrorIs(t, err, domain.ErrValidation, "days=%d", days)
		}
	})

	t.Run("deletes by cutoff and records the sweep", func(t *testing.T) {
		t.Parallel()

		recorded := make(chan *domain.Event, 1)
		repo := &mockEventRepo{
			deleteOlderThan: func(_ context.Context, cutoff time.Time) (int64, error) {
				assert.WithinDuration(t, time.Now().AddDate(0, 0, -90), cutoff, time.Minute)
				return 1234, nil
			},
			insert: func(_ context.Context, e *domain.Event) error {
				recorded <- e
				return nil
			},
		}

		removed, err := NewRetention(repo, NewRecorder(repo)).Sweep(context.Background(), 90, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1234), removed)

		select {
		case e := <-recorded:
			assert.Equal(t, domain.LevelWarn, e.Level)
			assert.Equal(t, domain.ActionCleanupLogs, e.Action)
			assert.Equal(t, "admin-1", e.UserID)
			require.NotNil(t, e.Details)
			assert.Equal(t, int64(1234), e.Details.Metadata["removed"])
			assert.Equal(t, 90, e.Details.Metadata["ageThresholdDays"])
		case <-time.After(2 * time.Second):
			t.Fatal("sweep was not recorded as an event")
		}
	})

	t.Run("store failure is masked and not recorded", func(t *testing.T) {
		t.Parallel()

		repo := &mockEventRepo{
			deleteOlderThan: func(context.Context, time.Time) (int64, error) {
				return 0, errors.New("deadlock detected")
			},
			insert: func(context.Context, *domain.Event) error {
				t.Error("failed sweep must not be recorded")
				return nil
			},
		}

		_, err := NewRetention(repo, NewRecorder(repo)).Sweep(context.Background(), 30, "admin-1")
		require.ErrorIs(t, err, ErrSweepFailed)
		time.Sleep(50 * time.Millisecond)
	})
}
