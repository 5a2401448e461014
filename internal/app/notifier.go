package app

import (
	"context"

	"github.com/Freeeeeet/hotel_booking/internal/config"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/notify"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// NewNotifier builds the booking notifier from the configured channels.
// telegram may be nil.
func NewNotifier(cfg *config.Config, store *storage.Store, telegram *bot.Bot, logger *zap.Logger) (*notify.Notifier, error) {
	var senders []notify.Sender
	if cfg.MailEnabled() {
		mailer, err := notify.NewMailSender(notify.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUsername,
			Password:   cfg.SMTPPassword,
			From:       cfg.SMTPFrom,
			FromName:   "ZENStay Hotel",
			AdminEmail: cfg.AdminEmail,
		})
		if err != nil {
			return nil, err
		}
		senders = append(senders, mailer)
	}
	if telegram != nil {
		senders = append(senders, notify.NewTelegramSender(telegram, cfg.TelegramAdminChatID))
	}
	if len(senders) == 0 {
		logger.Info("Notifications disabled, no SMTP or Telegram configured")
	}

	lookup := func(ctx context.Context, id int64) (model.Booking, bool) {
		for _, b := range store.Bookings(ctx) {
			if b.BookingID == id {
				return b, true
			}
		}
		return model.Booking{}, false
	}
	return notify.NewNotifier(lookup, logger, senders...), nil
}
