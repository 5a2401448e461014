package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
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
	"go.uber.org/zap"
)

// hotel-guest is the guest client. With arguments it runs one command
// ("hotel-guest /rooms available"), otherwise it reads commands from stdin.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, strings.Join(os.Args[1:], " ")); err != nil {
		logger.Fatal("Guest client stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, oneShot string) error {
	backends, err := app.OpenBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	store := storage.NewStore(backends.KV, logger.Named("store"))
	bus := eventbus.New(logger.Named("bus"))

	bridgeCtx, stopBridge := context.WithCancel(ctx)
	defer stopBridge()
	br := bridge.New(backends.Transport, logger.Named("bridge"))
	bus.SetForwarder(br)
	go func() {
		if err := br.Run(bridgeCtx); err != nil {
			logger.Error("Bridge stopped", zap.Error(err))
		}
	}()

	api := remote.NewClient(cfg.APIURL, cfg.APITimeout)
	sessions := session.NewProvider(store)
	rooms := service.NewRoomService(store, api, bus, logger.Named("rooms"))
	bookings := service.NewBookingService(store, api, bus, rooms, sessions, logger.Named("bookings"))
	payments := service.NewPaymentService(bookings, cfg.PaymentDelay, logger.Named("payments"))
	users := service.NewUserService(store, sessions, service.AdminCredentials{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
	}, logger.Named("users"))

	notifier, err := app.NewNotifier(cfg, store, nil, logger.Named("notify"))
	if err != nil {
		return err
	}
	if err := notifier.Attach(bus); err != nil {
		return err
	}
	defer notifier.Close()

	listing := view.NewRoomListing(rooms, bus, br, logger.Named("room_listing"))
	if err := listing.Mount(ctx); err != nil {
		return err
	}
	defer listing.Close()

	myBookings := view.NewBookingList(bookings, bus, br, logger.Named("booking_list"))
	if err := myBookings.Mount(ctx); err != nil {
		return err
	}
	defer myBookings.Close()

	console := controller.NewGuestConsole(listing, myBookings, bookings, payments, users, logger.Named("guest"))

	if oneShot != "" {
		fmt.Println(console.Execute(ctx, asCommand(oneShot)))
		return nil
	}
	return repl(ctx, console, os.Stdin, os.Stdout)
}

func repl(ctx context.Context, console *controller.GuestConsole, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprintln(out, console.Execute(ctx, "/start"))
	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			fmt.Fprintln(out, console.Execute(ctx, asCommand(line)))
		}
	}
}

// asCommand lets "rooms" be typed without the leading slash.
func asCommand(line string) string {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return "/" + line
	}
	return line
}
