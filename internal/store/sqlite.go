package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; one connection serializes command writes
	// against dispatch reads.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// Subscribe inserts or reactivates a subscriber. The original subscribed_at
// is preserved on reactivation so the history of a chat survives /stop.
func (r *SQLiteRepo) Subscribe(ctx context.Context, chatID int64, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscribers (chat_id, active, language, subscribed_at, unsubscribed_at)
		VALUES (?, 1, ?, ?, NULL)
		ON CONFLICT(chat_id) DO UPDATE SET
			active          = 1,
			unsubscribed_at = NULL`,
		chatID, domain.LangEnglish, now.UTC().Unix(),
	)
	return err
}

// Unsubscribe marks the subscriber inactive. Unknown chats are a no-op.
func (r *SQLiteRepo) Unsubscribe(ctx context.Context, chatID int64, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscribers
		SET active = 0, unsubscribed_at = ?
		WHERE chat_id = ? AND active = 1`,
		now.UTC().Unix(), chatID,
	)
	return err
}

// GetSubscriber returns a subscriber by chatID or ErrSubscriberNotFound.
func (r *SQLiteRepo) GetSubscriber(ctx context.Context, chatID int64) (*domain.Subscriber, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, active, language, subscribed_at, unsubscribed_at
		FROM subscribers
		WHERE chat_id = ?`,
		chatID,
	)
	s, err := scanSubscriber(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriberNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListActive returns all currently active subscribers.
func (r *SQLiteRepo) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, active, language, subscribed_at, unsubscribed_at
		FROM subscribers
		WHERE active = 1
		ORDER BY chat_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func scanSubscriber(scan func(dest ...any) error) (*domain.Subscriber, error) {
	var (
		chatID    int64
		activeInt int
		language  string
		subAt     int64
		unsubNS   sql.NullInt64
	)
	if err := scan(&chatID, &activeInt, &language, &subAt, &unsubNS); err != nil {
		return nil, err
	}
	return &domain.Subscriber{
		ChatID:         chatID,
		Active:         activeInt != 0,
		Language:       language,
		SubscribedAt:   time.Unix(subAt, 0).UTC(),
		UnsubscribedAt: fromNullInt64(unsubNS),
	}, nil
}

// SetLanguage updates the reminder language for a subscriber.
func (r *SQLiteRepo) SetLanguage(ctx context.Context, chatID int64, lang string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscribers
		SET language = ?
		WHERE chat_id = ?`,
		lang, chatID,
	)
	return err
}

// RecordDispatch appends one delivery attempt to the dispatch log.
func (r *SQLiteRepo) RecordDispatch(ctx context.Context, rec domain.DispatchRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dispatch_log (chat_id, day_of_year, sent_at, success)
		VALUES (?, ?, ?, ?)`,
		rec.ChatID, rec.DayOfYear, rec.SentAt.UTC().Unix(), boolToInt(rec.Success),
	)
	return err
}

// GetRun returns the batch run recorded for dayKey, or nil when none exists.
func (r *SQLiteRepo) GetRun(ctx context.Context, dayKey string) (*domain.DispatchRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT day_key, day_of_year, started_at, sent, failed
		FROM dispatch_runs
		WHERE day_key = ?`,
		dayKey,
	)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// LastRun returns the most recent batch run, or nil on a fresh store.
func (r *SQLiteRepo) LastRun(ctx context.Context) (*domain.DispatchRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT day_key, day_of_year, started_at, sent, failed
		FROM dispatch_runs
		ORDER BY day_key DESC
		LIMIT 1`,
	)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// RecordRun upserts the batch summary for a day.
func (r *SQLiteRepo) RecordRun(ctx context.Context, run domain.DispatchRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dispatch_runs (day_key, day_of_year, started_at, sent, failed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day_key) DO UPDATE SET
			day_of_year = excluded.day_of_year,
			started_at  = excluded.started_at,
			sent        = excluded.sent,
			failed      = excluded.failed`,
		run.DayKey, run.DayOfYear, run.StartedAt.UTC().Unix(), run.Sent, run.Failed,
	)
	return err
}

func scanRun(scan func(dest ...any) error) (*domain.DispatchRun, error) {
	var (
		dayKey    string
		dayOfYear int
		startedAt int64
		sent      int
		failed    int
	)
	if err := scan(&dayKey, &dayOfYear, &startedAt, &sent, &failed); err != nil {
		return nil, err
	}
	return &domain.DispatchRun{
		DayKey:    dayKey,
		DayOfYear: dayOfYear,
		StartedAt: time.Unix(startedAt, 0).UTC(),
		Sent:      sent,
		Failed:    failed,
	}, nil
}
