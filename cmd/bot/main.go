package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/salon_scheduler/internal/app"
	"github.com/Freeeeeet/salon_scheduler/internal/cache"
	"github.com/Freeeeeet/salon_scheduler/internal/config"
	"github.com/Freeeeeet/salon_scheduler/internal/controller"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/salon_scheduler/internal/events"
	"github.com/Freeeeeet/salon_scheduler/internal/migrations"
	"github.com/Freeeeeet/salon_scheduler/internal/repository"
	"github.com/Freeeeeet/salon_scheduler/internal/repository/base"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting salon scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Location.String()),
		zap.Int("granularity_minutes", cfg.SlotGranularityMinutes))

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Salon scheduler stopped with error", zap.Error(err))
	}

	logger.Info("Salon scheduler stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// Подключаемся к PostgreSQL
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("create pg pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	logger.Info("✅ Connected to PostgreSQL")

	if cfg.RunMigrations {
		if err := migrate(ctx, pool, logger); err != nil {
			return err
		}
	}

	db := base.NewRepository(pool, cfg.LockTimeout)
	staffRepo := repository.NewStaffRepository(db)

	svcCfg := service.Config{
		Location:           cfg.Location,
		GranularityMinutes: cfg.SlotGranularityMinutes,
		BookingTimeout:     cfg.BookingTimeout,
		NoShowAfter:        cfg.NoShowAfter,
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			// без кэша движок работает, просто медленнее
			logger.Warn("Redis is unavailable, availability cache disabled",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			svcCfg.Cache = cache.NewAvailabilityCache(client, cfg.AvailabilityCacheTTL)
			logger.Info("✅ Availability cache enabled", zap.Duration("ttl", cfg.AvailabilityCacheTTL))
		}
	}

	var publishers events.Fanout
	if cfg.RabbitMQURL != "" {
		rabbit := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.EventsExchange, logger)
		defer rabbit.Close()
		publishers = append(publishers, rabbit)
	}

	var botInstance *bot.Bot
	if cfg.TelegramToken != "" {
		botInstance, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
		publishers = append(publishers, controller.NewNotifier(botInstance, staffRepo, cfg.Location, logger))
	}
	if len(publishers) > 0 {
		svcCfg.Publisher = publishers
	}

	bookingService := service.NewBookingService(
		repository.NewTransactor(db),
		repository.NewWorkingHoursRepository(db),
		repository.NewBookingRepository(db),
		repository.NewServiceRepository(db, logger),
		repository.NewClientRepository(db),
		staffRepo,
		svcCfg,
		logger,
	)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.NoShowAfter > 0 {
		scheduler := app.NewScheduler(bookingService, cfg.NoShowSweepInterval, logger)
		scheduler.Start(gctx)
		g.Go(func() error {
			<-gctx.Done()
			scheduler.Stop()
			return nil
		})
	}

	if botInstance == nil {
		logger.Warn("TELEGRAM_TOKEN is not set, running background tasks only")
	} else {
		if len(cfg.TelegramAdminIDs) == 0 {
			logger.Warn("TELEGRAM_ADMIN_IDS is empty, bot rejects all commands")
		}

		botController := controller.NewBotController(
			botInstance,
			handlers.NewHandlers(bookingService, cfg.Location, cfg.IsAdmin, logger),
			logger,
		)
		if err := botController.RegisterHandlers(gctx); err != nil {
			return fmt.Errorf("register bot handlers: %w", err)
		}
		g.Go(func() error {
			return botController.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		return nil
	})

	return g.Wait()
}

func migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
