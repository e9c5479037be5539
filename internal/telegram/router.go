package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/store"
)

// Today resolves the current day's reading for a single chat. The dispatcher
// implements it; the router only needs this slice of it.
type Today interface {
	SendTo(ctx context.Context, chatID int64, dayOfYear int) error
}

// Router wires Telegram updates to command handlers.
type Router struct {
	bot   *tgbotapi.BotAPI
	log   *zap.Logger
	repo  store.Repo
	today Today

	dayOfYear func() int // current day in the reference timezone
}

// NewRouter creates a new Telegram router. dayOfYear supplies the current
// day-of-year in the bot's reference timezone (used by /today).
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, dayOfYear func() int) *Router {
	return &Router{
		bot:       bot,
		log:       log,
		repo:      repo,
		dayOfYear: dayOfYear,
	}
}

// SetToday wires the once-off reading sender. Set after the dispatcher is
// built (the dispatcher itself sends through this router).
func (r *Router) SetToday(t Today) { r.today = t }

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, chatID)
		case strings.HasPrefix(text, "/stop"):
			r.handleStop(ctx, chatID)
		case strings.HasPrefix(text, "/today"):
			r.handleToday(ctx, chatID)
		case strings.HasPrefix(text, "/chatid"):
			r.handleChatID(ctx, chatID)
		case strings.HasPrefix(text, "/lang"):
			r.handleLang(ctx, chatID)
		default:
			r.sendText(chatID, helpText)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		chatID := cb.Message.Chat.ID

		switch {
		case strings.HasPrefix(cb.Data, "lang:"):
			r.handleLangCallback(ctx, chatID, strings.TrimPrefix(cb.Data, "lang:"), cb.ID)
		default:
			// Unknown callback — ignore silently
		}
		return
	}
}

// SendMessage sends an HTML-formatted message to the given chat.
// This makes Router satisfy dispatch.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := r.bot.Send(msg)
	return err
}

// SendPoll sends a non-anonymous poll to the given chat.
func (r *Router) SendPoll(chatID int64, question string, options []string) error {
	poll := tgbotapi.NewPoll(chatID, question, options...)
	poll.IsAnonymous = false
	_, err := r.bot.Send(poll)
	return err
}
