package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/hotel_booking/internal/app"
	"github.com/Freeeeeet/hotel_booking/internal/bridge"
	"github.com/Freeeeeet/hotel_booking/internal/config"
	"github.com/Freeeeeet/hotel_booking/internal/controller"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/remote"
	"github.com/Freeeeeet/hotel_booking/internal/service"
	"github.com/Freeeeeet/hotel_booking/internal/session"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"github.com/Freeeeeet/hotel_booking/internal/view"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Client stopped with error", zap.Error(err))
	}
	logger.Info("✅ Client stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	backends, err := app.OpenBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	store := storage.NewStore(backends.KV, logger.Named("store"))
	bus := eventbus.New(logger.Named("bus"))

	br := bridge.New(backends.Transport, logger.Named("bridge"))
	bus.SetForwarder(br)
	bridgeDone := make(chan struct{})
	go func() {
		defer close(bridgeDone)
		if err := br.Run(ctx); err != nil {
			logger.Error("Bridge stopped", zap.Error(err))
		}
	}()

	api := remote.NewClient(cfg.APIURL, cfg.APITimeout)
	sessions := session.NewProvider(store)
	rooms := service.NewRoomService(store, api, bus, logger.Named("rooms"))
	bookings := service.NewBookingService(store, api, bus, rooms, sessions, logger.Named("bookings"))
	settings := service.NewSettingsService(store, bus, logger.Named("settings"))

	logger.Info("🏨 Hotel client starting",
		zap.String("api", cfg.APIURL),
		zap.String("origin", br.Origin()))

	var telegram *bot.Bot
	if cfg.TelegramEnabled() {
		telegram, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
	}

	notifier, err := app.NewNotifier(cfg, store, telegram, logger.Named("notify"))
	if err != nil {
		return err
	}
	if err := notifier.Attach(bus); err != nil {
		return err
	}
	defer notifier.Close()

	scheduler := app.NewScheduler(rooms, bookings, bus, cfg.SyncInterval, logger.Named("scheduler"))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if telegram != nil {
		dashboard := view.NewAdminDashboard(bookings, rooms, bus, br, logger.Named("admin_dashboard"))
		if err := dashboard.Mount(ctx); err != nil {
			return err
		}
		defer dashboard.Close()

		adminBot := controller.NewAdminBot(telegram, dashboard, settings, scheduler, cfg.TelegramAdminChatID, logger.Named("bot"))
		if err := adminBot.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}
		go adminBot.Start(ctx)
	}

	<-ctx.Done()
	logger.Info("⚠️  Shutdown signal received")
	<-bridgeDone
	return nil
}
