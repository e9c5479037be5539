package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

const (
	startText = "📖 You are subscribed to daily Bible reading reminders.\n\n" +
		"Every day I will send you the passages of a one-year reading plan.\n" +
		"Use /today to get today's reading right away, /lang to switch the " +
		"language, and /stop to unsubscribe."
	stopText = "You are unsubscribed. Send /start whenever you want the " +
		"daily reminders back."
	helpText = "I am a Bible reading reminder bot.\n\n" +
		"/start — subscribe to daily reminders\n" +
		"/stop — unsubscribe\n" +
		"/today — get today's reading now\n" +
		"/lang — choose English or German\n" +
		"/chatid — show this chat's ID"

	subscribeFailedText   = "Sorry, your subscription could not be saved. Please try again later."
	unsubscribeFailedText = "Sorry, unsubscribing failed. Please try again later."
	todayFailedText       = "Sorry, today's reading could not be sent."
	notReadyText          = "The bot is still starting up. Please try again in a moment."
)

func langKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("English", "lang:en"),
			tgbotapi.NewInlineKeyboardButtonData("Deutsch", "lang:de"),
		),
	)
}
