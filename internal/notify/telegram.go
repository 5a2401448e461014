package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramSender posts admin notifications to the admin chat.
type TelegramSender struct {
	bot    messageSender
	chatID int64
}

func NewTelegramSender(b *bot.Bot, chatID int64) *TelegramSender {
	return &TelegramSender{bot: b, chatID: chatID}
}

func (s *TelegramSender) Serves(a Audience) bool { return a == AudienceAdmin }

func (s *TelegramSender) Send(ctx context.Context, m Message) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   "🔔 " + m.Subject + "\n\n" + m.Body,
	})
	if err != nil {
		return fmt.Errorf("telegram send to %d: %w", s.chatID, err)
	}
	return nil
}
