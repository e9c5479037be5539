package store

import (
	"context"
	"errors"
	"time"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/domain"
)

// ErrSubscriberNotFound is returned by GetSubscriber for unknown chats.
var ErrSubscriberNotFound = errors.New("subscriber not found")

// Repo defines storage operations for subscribers and dispatch bookkeeping.
// All mutations are durable before the call returns.
type Repo interface {
	// Subscribe inserts a new active subscriber or reactivates an existing
	// one. Idempotent: subscribing an already active chat is a no-op.
	Subscribe(ctx context.Context, chatID int64, now time.Time) error
	// Unsubscribe marks a subscriber inactive, keeping the row. Idempotent;
	// unknown chats are a no-op.
	Unsubscribe(ctx context.Context, chatID int64, now time.Time) error
	GetSubscriber(ctx context.Context, chatID int64) (*domain.Subscriber, error)
	ListActive(ctx context.Context) ([]domain.Subscriber, error)
	SetLanguage(ctx context.Context, chatID int64, lang string) error

	// RecordDispatch appends one per-recipient delivery attempt.
	RecordDispatch(ctx context.Context, rec domain.DispatchRecord) error
	// GetRun returns the batch run for a day key, or nil if none happened.
	GetRun(ctx context.Context, dayKey string) (*domain.DispatchRun, error)
	// LastRun returns the most recent batch run, or nil on a fresh store.
	LastRun(ctx context.Context) (*domain.DispatchRun, error)
	RecordRun(ctx context.Context, run domain.DispatchRun) error

	Close() error
}
