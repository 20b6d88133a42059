package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/quran_academy/internal/app"
	"github.com/Freeeeeet/quran_academy/internal/config"
	"github.com/Freeeeeet/quran_academy/internal/controller"
	"github.com/Freeeeeet/quran_academy/internal/controller/handlers"
	"github.com/Freeeeeet/quran_academy/internal/navigation"
	"github.com/Freeeeeet/quran_academy/internal/notify"
	"github.com/Freeeeeet/quran_academy/internal/repository"
	"github.com/Freeeeeet/quran_academy/internal/service"
	"github.com/Freeeeeet/quran_academy/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := navigation.ValidateTable(navigation.Items()); err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	navManager := navigation.NewManager()
	userService := service.NewUserService(userRepo, navManager, cfg.AdminTelegramIDs, logger)

	notifier := notify.NewTelegramNotifier(botInstance, userService, cfg.Location(), logger)
	bookingService := service.NewBookingService(bookingRepo, userRepo, notifier, service.BookingOptions{
		StoreTimeout: cfg.StoreTimeout,
		ReadRetries:  cfg.ReadRetries,
	}, logger)

	cmdHandlers := handlers.NewHandlers(userService, bookingService, navManager, cfg.Location(), logger)
	botController := controller.NewBotController(botInstance, cmdHandlers, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		return err
	}

	scheduler := app.NewScheduler(bookingService, cfg.ReminderLead, cfg.ReminderInterval, logger)

	logger.Info("Starting quran academy bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Timezone),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return botController.Start(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })

	return g.Wait()
}
