// Package dispatch sends the day's reading to every active subscriber as one
// sequential batch. A failing recipient never aborts the batch; the failure
// is logged, recorded, and counted.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/domain"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/plan"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/store"
)

// Sender is the minimal messaging surface the dispatcher needs.
// telegram.Router implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
	SendPoll(chatID int64, question string, options []string) error
}

// Summary reports the outcome of one batch.
type Summary struct {
	Sent   int
	Failed int
}

// Dispatcher formats and delivers daily reminders.
type Dispatcher struct {
	repo     store.Repo
	plan     *plan.Plan
	sender   Sender
	log      *zap.Logger
	sendPoll bool
}

func New(repo store.Repo, p *plan.Plan, sender Sender, log *zap.Logger, sendPoll bool) *Dispatcher {
	return &Dispatcher{
		repo:     repo,
		plan:     p,
		sender:   sender,
		log:      log,
		sendPoll: sendPoll,
	}
}

// Dispatch sends the reading for dayOfYear to every active subscriber.
// The subscriber list is snapshotted up front: a chat subscribing while the
// batch is running is picked up on the next day's run.
//
// Dispatch itself is not day-idempotent; the scheduler guards against
// double runs via the dispatch_runs table.
func (d *Dispatcher) Dispatch(ctx context.Context, dayOfYear int) (Summary, error) {
	entry, err := d.plan.Entry(dayOfYear)
	if err != nil {
		// Out-of-range day means broken date math upstream.
		return Summary{}, fmt.Errorf("plan lookup: %w", err)
	}

	subs, err := d.repo.ListActive(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list subscribers: %w", err)
	}

	var sum Summary
	for _, sub := range subs {
		err := d.sender.SendMessage(sub.ChatID, FormatReminder(entry, sub.Language))
		if err != nil {
			sum.Failed++
			d.log.Warn("reminder delivery failed",
				zap.Int64("chatID", sub.ChatID),
				zap.Int("day", dayOfYear),
				zap.Error(err),
			)
		} else {
			sum.Sent++
			if d.sendPoll {
				q, opts := pollFor(sub.Language)
				if perr := d.sender.SendPoll(sub.ChatID, q, opts); perr != nil {
					d.log.Warn("poll delivery failed",
						zap.Int64("chatID", sub.ChatID),
						zap.Error(perr),
					)
				}
			}
		}
		rec := domain.DispatchRecord{
			ChatID:    sub.ChatID,
			DayOfYear: dayOfYear,
			SentAt:    time.Now().UTC(),
			Success:   err == nil,
		}
		if rerr := d.repo.RecordDispatch(ctx, rec); rerr != nil {
			d.log.Error("record dispatch failed", zap.Int64("chatID", sub.ChatID), zap.Error(rerr))
		}
	}

	d.log.Info("dispatch finished",
		zap.Int("day", dayOfYear),
		zap.Int("sent", sum.Sent),
		zap.Int("failed", sum.Failed),
	)
	return sum, nil
}

// SendTo delivers the reading for dayOfYear to a single chat, outside the
// daily batch. Used by the /today command.
func (d *Dispatcher) SendTo(ctx context.Context, chatID int64, dayOfYear int) error {
	sub, err := d.repo.GetSubscriber(ctx, chatID)
	lang := domain.LangEnglish
	if err == nil {
		lang = sub.Language
	}
	entry, err := d.plan.Entry(dayOfYear)
	if err != nil {
		return fmt.Errorf("plan lookup: %w", err)
	}
	return d.sender.SendMessage(chatID, FormatReminder(entry, lang))
}

// FormatReminder renders the reminder body in the subscriber's language,
// matching the bilingual HTML layout of the bot's messages.
func FormatReminder(entry plan.Entry, lang string) string {
	var b strings.Builder
	if lang == domain.LangGerman {
		b.WriteString("<b>Dies ist eine Erinnerung, die Bibel zu lesen.</b>\n")
		if entry.OT != "" {
			b.WriteString("\nAT: " + entry.OT)
		}
		if entry.NT != "" {
			b.WriteString("\nNT: " + entry.NT)
		}
	} else {
		b.WriteString("<b>This is a reminder to read the Bible.</b>\n")
		if entry.OT != "" {
			b.WriteString("\nOT: " + entry.OT)
		}
		if entry.NT != "" {
			b.WriteString("\nNT: " + entry.NT)
		}
	}
	return b.String()
}

func pollFor(lang string) (question string, options []string) {
	if lang == domain.LangGerman {
		return "Hast du heute schon die Bibel gelesen?", []string{"Ja", "Nein"}
	}
	return "Have you read the Bible today?", []string{"Yes", "No"}
}
