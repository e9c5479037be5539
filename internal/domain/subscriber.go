package domain

import "time"

// Languages accepted for reminder texts.
const (
	LangEnglish = "en"
	LangGerman  = "de"
)

// Subscriber represents a chat that opted in to daily reading reminders.
// Unsubscribing keeps the row and flips Active, so the subscription history
// survives a /stop followed by a later /start.
type Subscriber struct {
	ChatID         int64
	Active         bool
	Language       string // "en" or "de"
	SubscribedAt   time.Time  // UTC
	UnsubscribedAt *time.Time // UTC, nil while active
}

// DispatchRecord is one delivery attempt to one chat. Append-only; used for
// debugging and delivery statistics, never for correctness.
type DispatchRecord struct {
	ChatID    int64
	DayOfYear int
	SentAt    time.Time // UTC
	Success   bool
}

// DispatchRun summarizes one daily batch. Exactly one row per calendar day
// in the reference timezone; its existence makes the daily dispatch
// idempotent across restarts and double triggers.
type DispatchRun struct {
	DayKey    string // YYYY-MM-DD in the reference timezone
	DayOfYear int
	StartedAt time.Time // UTC
	Sent      int
	Failed    int
}
