package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avstrong/resort/internal/booking"
	"github.com/avstrong/resort/internal/boost"
	"github.com/avstrong/resort/internal/cart"
	"github.com/avstrong/resort/internal/config"
	"github.com/avstrong/resort/internal/idgen/random"
	"github.com/avstrong/resort/internal/logger"
	"github.com/avstrong/resort/internal/migration"
	"github.com/avstrong/resort/internal/payment"
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/storage/memory"
	"github.com/avstrong/resort/internal/transport/web"
)

func Run(l *logger.Logger, conf config.App) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	storage := memory.New(memory.Config{L: l})

	if conf.SeedDemoData {
		if err := migration.Up(ctx, l, storage, time.Now()); err != nil {
			return fmt.Errorf("up demo migration: %w", err)
		}

		l.LogInfo("Demo migration has been applied")
	}

	calc, err := pricing.NewCalculator(conf.Pricing())
	if err != nil {
		return fmt.Errorf("init pricing calculator: %w", err)
	}

	carts := cart.NewStore()
	gateway := payment.NewGateway(payment.Config{
		L:            l.With("component", "payment"),
		DeclineAbove: pricing.Amount(conf.PaymentDeclineAbove),
	})

	bookManager := booking.New(booking.Config{
		L:                    l.With("component", "booking"),
		Currency:             conf.Currency,
		LoyaltyPointsPerUnit: conf.LoyaltyPointsPerUnit,
	}, storage, random.New("bk_"), gateway, carts)

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      slog.NewLogLogger(l.Slog().Handler(), slog.LevelError),
		Host:              conf.HTTPHost,
		Port:              conf.HTTPPort,
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		LivenessEndpoint:  conf.LivenessEndpoint,
		Currency:          conf.Currency,
	}

	srv, err := web.New(ctx, webConf, web.Deps{
		Rooms:      storage,
		Calculator: calc,
		Aggregator: cart.NewAggregator(l, calc, storage),
		Carts:      carts,
		Booking:    bookManager,
		Boost:      boost.New(storage, nil),
	})
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
