package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/domain"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/plan"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/store"
)

// fakeSender records outgoing messages and fails for chosen chats.
type fakeSender struct {
	messages map[int64][]string
	polls    map[int64]int
	failFor  map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		messages: make(map[int64][]string),
		polls:    make(map[int64]int),
		failFor:  make(map[int64]bool),
	}
}

func (f *fakeSender) SendMessage(chatID int64, text string) error {
	if f.failFor[chatID] {
		return errors.New("chat not reachable")
	}
	f.messages[chatID] = append(f.messages[chatID], text)
	return nil
}

func (f *fakeSender) SendPoll(chatID int64, question string, options []string) error {
	if f.failFor[chatID] {
		return errors.New("chat not reachable")
	}
	f.polls[chatID]++
	return nil
}

func testPlan(t *testing.T) *plan.Plan {
	t.Helper()
	p, err := plan.Load(strings.NewReader("45,Leviticus 1-3,\n46,Leviticus 4-5,Mark 1\n"))
	require.NoError(t, err)
	return p
}

func TestDispatch_FailureIsolation(t *testing.T) {
	repo := store.SetupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Subscribe(ctx, 1, time.Now())) // A, will fail
	require.NoError(t, repo.Subscribe(ctx, 2, time.Now())) // B

	sender := newFakeSender()
	sender.failFor[1] = true

	d := New(repo, testPlan(t), sender, zap.NewNop(), false)
	sum, err := d.Dispatch(ctx, 45)
	require.NoError(t, err)

	assert.Equal(t, Summary{Sent: 1, Failed: 1}, sum)
	require.Len(t, sender.messages[2], 1)
	assert.Contains(t, sender.messages[2][0], "Leviticus 1-3")
	assert.Empty(t, sender.messages[1])
}

func TestDispatch_NoSubscribers(t *testing.T) {
	repo := store.SetupTestRepo(t)

	sender := newFakeSender()
	d := New(repo, testPlan(t), sender, zap.NewNop(), false)

	sum, err := d.Dispatch(context.Background(), 45)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}

func TestDispatch_SkipsUnsubscribed(t *testing.T) {
	repo := store.SetupTestRepo(t)
	ctx := context.Background()

	// /start followed by /stop leaves the chat out of the next dispatch.
	require.NoError(t, repo.Subscribe(ctx, 42, time.Now()))
	require.NoError(t, repo.Unsubscribe(ctx, 42, time.Now()))

	sender := newFakeSender()
	d := New(repo, testPlan(t), sender, zap.NewNop(), false)

	sum, err := d.Dispatch(ctx, 45)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
	assert.Empty(t, sender.messages[42])
}

func TestDispatch_OutOfRangeDay(t *testing.T) {
	repo := store.SetupTestRepo(t)

	d := New(repo, testPlan(t), newFakeSender(), zap.NewNop(), false)
	_, err := d.Dispatch(context.Background(), 999)
	assert.ErrorIs(t, err, plan.ErrDayOutOfRange)
}

func TestDispatch_SendsPollAfterReminder(t *testing.T) {
	repo := store.SetupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Subscribe(ctx, 1, time.Now()))

	sender := newFakeSender()
	d := New(repo, testPlan(t), sender, zap.NewNop(), true)

	sum, err := d.Dispatch(ctx, 46)
	require.NoError(t, err)
	assert.Equal(t, Summary{Sent: 1}, sum)
	assert.Equal(t, 1, sender.polls[1])
}

func TestSendTo_UsesSubscriberLanguage(t *testing.T) {
	repo := store.SetupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Subscribe(ctx, 1, time.Now()))
	require.NoError(t, repo.SetLanguage(ctx, 1, domain.LangGerman))

	sender := newFakeSender()
	d := New(repo, testPlan(t), sender, zap.NewNop(), false)

	require.NoError(t, d.SendTo(ctx, 1, 46))
	require.Len(t, sender.messages[1], 1)
	assert.Contains(t, sender.messages[1][0], "Erinnerung")
	assert.Contains(t, sender.messages[1][0], "AT: Leviticus 4-5")
}

func TestSendTo_UnknownChatDefaultsToEnglish(t *testing.T) {
	repo := store.SetupTestRepo(t)

	sender := newFakeSender()
	d := New(repo, testPlan(t), sender, zap.NewNop(), false)

	require.NoError(t, d.SendTo(context.Background(), 7, 46))
	require.Len(t, sender.messages[7], 1)
	assert.Contains(t, sender.messages[7][0], "OT: Leviticus 4-5")
}

func TestFormatReminder(t *testing.T) {
	entry := plan.Entry{DayOfYear: 46, OT: "Leviticus 4-5", NT: "Mark 1"}

	en := FormatReminder(entry, domain.LangEnglish)
	assert.Contains(t, en, "<b>This is a reminder to read the Bible.</b>")
	assert.Contains(t, en, "OT: Leviticus 4-5")
	assert.Contains(t, en, "NT: Mark 1")

	de := FormatReminder(entry, domain.LangGerman)
	assert.Contains(t, de, "Bibel zu lesen")
	assert.Contains(t, de, "AT: Leviticus 4-5")
}
