package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sendError sends a localized error message and logs the cause.
func (b *Bot) sendError(chatID int64, userMessage string, err error) {
	if err != nil {
		b.logger.Error("command failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	b.sendMessage(chatID, userMessage)
}

// sendMessage sends plain text with error logging.
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(chatID, tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(chatID int64, c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
