package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/domain"
)

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) answerCallback(id, text string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		r.log.Warn("answer callback failed", zap.Error(err))
	}
}

// handleStart subscribes a chat. The subscription must be durable before we
// confirm it, so a store failure yields an apology rather than a false "ok".
func (r *Router) handleStart(ctx context.Context, chatID int64) {
	if err := r.repo.Subscribe(ctx, chatID, time.Now()); err != nil {
		r.log.Error("subscribe failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, subscribeFailedText)
		return
	}
	r.sendText(chatID, startText)
}

func (r *Router) handleStop(ctx context.Context, chatID int64) {
	if err := r.repo.Unsubscribe(ctx, chatID, time.Now()); err != nil {
		r.log.Error("unsubscribe failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, unsubscribeFailedText)
		return
	}
	r.sendText(chatID, stopText)
}

// handleToday sends the current day's reading immediately, without touching
// the daily batch bookkeeping.
func (r *Router) handleToday(ctx context.Context, chatID int64) {
	if r.today == nil {
		r.sendText(chatID, notReadyText)
		return
	}
	if err := r.today.SendTo(ctx, chatID, r.dayOfYear()); err != nil {
		r.log.Error("send today failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, todayFailedText)
	}
}

func (r *Router) handleChatID(ctx context.Context, chatID int64) {
	r.sendText(chatID, fmt.Sprintf("Hello, your Chat-ID is: %d", chatID))
}

func (r *Router) handleLang(ctx context.Context, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Please select your language:")
	msg.ReplyMarkup = langKeyboard()
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) handleLangCallback(ctx context.Context, chatID int64, choice, cbID string) {
	lang, err := domain.ValidateLanguage(choice)
	if err != nil {
		r.answerCallback(cbID, "Unknown language.")
		return
	}
	if err := r.repo.SetLanguage(ctx, chatID, lang); err != nil {
		r.log.Error("set language failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.answerCallback(cbID, "Could not save your language.")
		return
	}
	r.answerCallback(cbID, "")
	if lang == domain.LangGerman {
		r.sendText(chatID, "Sprache auf Deutsch gesetzt.")
	} else {
		r.sendText(chatID, "Language set to English.")
	}
}
