package controller

import (
	"context"
	"strings"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Dashboard is the admin view the bot drives.
type Dashboard interface {
	Bookings() []model.Booking
	Pending() []model.Booking
	Stats() model.AdminStats
	Approve(ctx context.Context, id int64) (model.Booking, error)
	Reject(ctx context.Context, id int64) (model.Booking, error)
	FreeRoom(ctx context.Context, roomID int64) (domain.FreeResult, error)
	FreeAllRooms(ctx context.Context) ([]model.Booking, error)
}

// Refresher asks every mounted view to reload.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Settings is the hotel configuration the bot reads and resets.
type Settings interface {
	HotelInfo(ctx context.Context) model.HotelInfo
	ResetSystem(ctx context.Context)
}

type command struct {
	name        string
	description string
	run         func(ctx context.Context, args string) string
}

// AdminBot is the hotel admin console over Telegram.
type AdminBot struct {
	bot         *bot.Bot
	dashboard   Dashboard
	settings    Settings
	refresher   Refresher
	adminChatID int64
	logger      *zap.Logger
	commands    []command
}

func NewAdminBot(botInstance *bot.Bot, dashboard Dashboard, settings Settings, refresher Refresher, adminChatID int64, logger *zap.Logger) *AdminBot {
	c := &AdminBot{
		bot:         botInstance,
		dashboard:   dashboard,
		settings:    settings,
		refresher:   refresher,
		adminChatID: adminChatID,
		logger:      logger,
	}
	c.commands = []command{
		{"start", "🚀 Admin console", c.help},
		{"help", "❓ Command reference", c.help},
		{"bookings", "📋 All bookings", c.listBookings},
		{"pending", "⏳ Bookings awaiting a decision", c.listPending},
		{"approve", "✅ Approve booking: /approve <id>", c.approve},
		{"reject", "❌ Reject booking: /reject <id>", c.reject},
		{"free", "🔓 Free room: /free <roomId>", c.freeRoom},
		{"freeall", "🧹 Free all rooms", c.freeAll},
		{"stats", "📊 Occupancy and revenue", c.stats},
		{"refresh", "🔄 Reload data", c.refresh},
		{"hotel", "🏨 Hotel info", c.hotelInfo},
		{"reset", "🗑 Wipe all local data: /reset confirm", c.reset},
	}
	return c
}

// RegisterHandlers registers the command router and the command menu.
func (c *AdminBot) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, c.handleCommand)
	return c.setCommands(ctx)
}

func (c *AdminBot) setCommands(ctx context.Context) error {
	commands := make([]models.BotCommand, 0, len(c.commands))
	for _, cmd := range c.commands {
		commands = append(commands, models.BotCommand{Command: cmd.name, Description: cmd.description})
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start blocks until ctx is done.
func (c *AdminBot) Start(ctx context.Context) error {
	c.logger.Info("Starting admin bot...")
	c.bot.Start(ctx)
	return nil
}

func (c *AdminBot) handleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := c.requireAdmin(ctx, b, update)
	if !ok {
		return
	}
	c.sendMessage(ctx, b, chatID, c.Execute(ctx, update.Message.Text))
}

// Execute runs one command line and returns the reply text.
func (c *AdminBot) Execute(ctx context.Context, text string) string {
	return dispatch(ctx, c.commands, text, c.logger)
}

func dispatch(ctx context.Context, commands []command, text string, logger *zap.Logger) string {
	name, args := parseCommand(text)
	for _, cmd := range commands {
		if cmd.name == name {
			logger.Debug("Command", zap.String("command", name), zap.String("args", args))
			return cmd.run(ctx, args)
		}
	}
	return "🤷 Unknown command. See /help"
}

// parseCommand splits "/approve@HotelBot 12" into "approve" and "12".
func parseCommand(text string) (name, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(rest)
}
