// Package scheduler fires the daily dispatch at a configured wall-clock time
// in a fixed reference timezone. The clock is injectable so day-boundary and
// catch-up behavior are testable without sleeping.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/dispatch"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/domain"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/store"
)

// Dispatcher abstracts the daily batch so tests can observe trigger times
// without a real Telegram client.
type Dispatcher interface {
	Dispatch(ctx context.Context, dayOfYear int) (dispatch.Summary, error)
}

// Scheduler alternates between waiting for the next trigger instant and
// running one dispatch. Downtime policy: with CatchUp off (default), a day
// whose trigger passed while the process was down is skipped; with CatchUp
// on, the current day is dispatched once at startup if it was missed. Days
// before the current one are never replayed.
type Scheduler struct {
	repo       store.Repo
	dispatcher Dispatcher
	log        *zap.Logger

	loc     *time.Location
	sendAtM int // minutes since midnight in loc
	catchUp bool

	now func() time.Time
}

func New(repo store.Repo, d Dispatcher, log *zap.Logger, loc *time.Location, sendAtM int, catchUp bool) *Scheduler {
	return &Scheduler{
		repo:       repo,
		dispatcher: d,
		log:        log,
		loc:        loc,
		sendAtM:    sendAtM,
		catchUp:    catchUp,
		now:        time.Now,
	}
}

// NextTrigger returns the next occurrence of the configured send time
// strictly after now, in the reference timezone.
func (s *Scheduler) NextTrigger(now time.Time) time.Time {
	local := now.In(s.loc)
	trigger := time.Date(local.Year(), local.Month(), local.Day(),
		s.sendAtM/60, s.sendAtM%60, 0, 0, s.loc)
	if !trigger.After(local) {
		trigger = trigger.AddDate(0, 0, 1)
	}
	return trigger
}

// DayKey formats the calendar date of t in the reference timezone. One
// dispatch_runs row exists per key.
func (s *Scheduler) DayKey(t time.Time) string {
	return t.In(s.loc).Format("2006-01-02")
}

// Run loops until ctx is canceled. Each cycle waits for the next trigger,
// then fires at most one dispatch for that calendar day.
func (s *Scheduler) Run(ctx context.Context) {
	if s.catchUp {
		s.maybeCatchUp(ctx)
	}

	for {
		now := s.now()
		next := s.NextTrigger(now)
		s.log.Info("scheduler waiting",
			zap.Time("next", next),
			zap.String("tz", s.loc.String()),
		)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("scheduler stopping")
			return
		case <-timer.C:
			s.fire(ctx, s.now())
		}
	}
}

// maybeCatchUp dispatches immediately when today's trigger already passed
// and no run is recorded for today.
func (s *Scheduler) maybeCatchUp(ctx context.Context) {
	now := s.now()
	local := now.In(s.loc)
	if local.Hour()*60+local.Minute() < s.sendAtM {
		return // today's trigger is still ahead
	}
	run, err := s.repo.GetRun(ctx, s.DayKey(now))
	if err != nil {
		s.log.Error("catch-up run lookup failed", zap.Error(err))
		return
	}
	if run != nil {
		return
	}
	s.log.Info("catching up missed dispatch", zap.String("day", s.DayKey(now)))
	s.fire(ctx, now)
}

// fire runs one dispatch for the calendar day of "at", unless that day
// already has a recorded run.
func (s *Scheduler) fire(ctx context.Context, at time.Time) {
	dayKey := s.DayKey(at)
	dayOfYear := at.In(s.loc).YearDay()

	existing, err := s.repo.GetRun(ctx, dayKey)
	if err != nil {
		s.log.Error("run lookup failed", zap.String("day", dayKey), zap.Error(err))
		return
	}
	if existing != nil {
		s.log.Info("dispatch already ran, skipping", zap.String("day", dayKey))
		return
	}

	sum, err := s.dispatcher.Dispatch(ctx, dayOfYear)
	if err != nil {
		s.log.Error("dispatch failed", zap.String("day", dayKey), zap.Error(err))
		return
	}

	run := domain.DispatchRun{
		DayKey:    dayKey,
		DayOfYear: dayOfYear,
		StartedAt: at.UTC(),
		Sent:      sum.Sent,
		Failed:    sum.Failed,
	}
	if err := s.repo.RecordRun(ctx, run); err != nil {
		s.log.Error("record run failed", zap.String("day", dayKey), zap.Error(err))
	}
}
