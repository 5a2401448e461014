package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireAdmin lets through only messages from the configured admin chat.
func (c *AdminBot) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) (int64, bool) {
	if update.Message == nil {
		return 0, false
	}

	chatID := update.Message.Chat.ID
	if chatID != c.adminChatID {
		c.logger.Warn("Command from unknown chat", zap.Int64("chat_id", chatID))
		c.sendMessage(ctx, b, chatID, "⛔ This bot is for hotel staff only.")
		return 0, false
	}
	return chatID, true
}

// sendMessage sends text and logs on failure.
func (c *AdminBot) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
