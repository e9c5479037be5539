package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/dispatch"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/store"
)

type fakeDispatcher struct {
	calls []int
}

func (f *fakeDispatcher) Dispatch(_ context.Context, dayOfYear int) (dispatch.Summary, error) {
	f.calls = append(f.calls, dayOfYear)
	return dispatch.Summary{Sent: 1}, nil
}

func newTestScheduler(t *testing.T, loc *time.Location, sendAtM int, catchUp bool) (*Scheduler, *fakeDispatcher) {
	t.Helper()
	repo := store.SetupTestRepo(t)
	fd := &fakeDispatcher{}
	return New(repo, fd, zap.NewNop(), loc, sendAtM, catchUp), fd
}

func TestNextTrigger_SameDay(t *testing.T) {
	s, _ := newTestScheduler(t, time.UTC, 8*60, false)

	now := time.Date(2026, 2, 14, 6, 30, 0, 0, time.UTC)
	next := s.NextTrigger(now)
	assert.Equal(t, time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC), next)
}

func TestNextTrigger_RollsToNextDay(t *testing.T) {
	s, _ := newTestScheduler(t, time.UTC, 8*60, false)

	// Exactly at the trigger instant the next one is tomorrow.
	now := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)
	next := s.NextTrigger(now)
	assert.Equal(t, time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC), next)

	now = time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
	next = s.NextTrigger(now)
	assert.Equal(t, time.Date(2027, 1, 1, 8, 0, 0, 0, time.UTC), next)
}

func TestNextTrigger_ReferenceTimezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	s, _ := newTestScheduler(t, berlin, 8*60, false)

	// 06:30 UTC on 2026-02-14 is 07:30 in Berlin, so the trigger is
	// 08:00 Berlin time that same day.
	now := time.Date(2026, 2, 14, 6, 30, 0, 0, time.UTC)
	next := s.NextTrigger(now)
	assert.Equal(t, time.Date(2026, 2, 14, 8, 0, 0, 0, berlin).UTC(), next.UTC())
}

func TestFire_DispatchesOncePerDay(t *testing.T) {
	s, fd := newTestScheduler(t, time.UTC, 8*60, false)
	ctx := context.Background()

	at := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)
	s.fire(ctx, at)
	s.fire(ctx, at.Add(time.Minute)) // double trigger for the same day

	require.Len(t, fd.calls, 1)
	assert.Equal(t, 45, fd.calls[0]) // Feb 14 is day 45

	run, err := s.repo.GetRun(ctx, "2026-02-14")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 45, run.DayOfYear)
	assert.Equal(t, 1, run.Sent)
}

func TestFire_NextDayDispatchesAgain(t *testing.T) {
	s, fd := newTestScheduler(t, time.UTC, 8*60, false)
	ctx := context.Background()

	s.fire(ctx, time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC))
	s.fire(ctx, time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC))

	assert.Equal(t, []int{45, 46}, fd.calls)
}

func TestCatchUp_FiresWhenTodayWasMissed(t *testing.T) {
	s, fd := newTestScheduler(t, time.UTC, 8*60, true)
	ctx := context.Background()

	// Process starts at 10:00, two hours after the missed trigger.
	s.now = func() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }
	s.maybeCatchUp(ctx)

	require.Len(t, fd.calls, 1)
	assert.Equal(t, 45, fd.calls[0])

	// A second startup the same day does nothing.
	s.maybeCatchUp(ctx)
	assert.Len(t, fd.calls, 1)
}

func TestCatchUp_SkipsWhenTriggerStillAhead(t *testing.T) {
	s, fd := newTestScheduler(t, time.UTC, 8*60, true)

	s.now = func() time.Time { return time.Date(2026, 2, 14, 6, 0, 0, 0, time.UTC) }
	s.maybeCatchUp(context.Background())

	assert.Empty(t, fd.calls)
}

func TestCatchUp_SkipsWhenTodayAlreadyRan(t *testing.T) {
	s, fd := newTestScheduler(t, time.UTC, 8*60, true)
	ctx := context.Background()

	s.now = func() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }
	s.fire(ctx, time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC))
	require.Len(t, fd.calls, 1)

	s.maybeCatchUp(ctx)
	assert.Len(t, fd.calls, 1)
}
