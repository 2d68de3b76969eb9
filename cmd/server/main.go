package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/meetme/internal/api/handler"
	"github.com/Freeeeeet/meetme/internal/api/router"
	"github.com/Freeeeeet/meetme/internal/app"
	"github.com/Freeeeeet/meetme/internal/config"
	"github.com/Freeeeeet/meetme/internal/repository"
	"github.com/Freeeeeet/meetme/internal/service"
	"github.com/Freeeeeet/meetme/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting MeetMe backend",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("timezone", cfg.Timezone),
		zap.Bool("strict_reschedule", cfg.StrictReschedule),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	_ = migrator.Close()

	loc := cfg.Location()

	slotRepo := repository.NewSlotRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	chatRepo := repository.NewChatRepository(pool)

	notifyHub := session.NewHub()
	chatHub := session.NewHub()

	sinks := []service.Sink{
		service.NewStoreSink(notificationRepo),
		service.NewPushSink(notifyHub, logger),
	}
	if cfg.TelegramToken != "" {
		tg, err := bot.New(cfg.TelegramToken)
		if err != nil {
			logger.Warn("Telegram notifications disabled", zap.Error(err))
		} else {
			sinks = append(sinks, service.NewTelegramSink(tg, userRepo))
		}
	}

	dispatcher := service.NewDispatcher(cfg.NotifyQueueSize, logger, sinks...)
	dispatcher.Start(ctx)

	bookingService := service.NewBookingService(slotRepo, appointmentRepo, dispatcher, service.BookingConfig{
		Location:         loc,
		StrictReschedule: cfg.StrictReschedule,
	}, logger)
	slotService := service.NewSlotService(slotRepo, loc, logger)
	userService := service.NewUserService(userRepo, logger)
	chatService := service.NewChatService(chatRepo, chatHub, logger)

	scheduler := app.NewScheduler(slotService, cfg.SlotSweepInterval, logger)
	scheduler.Start(ctx)

	h := handler.NewHandler(handler.Services{
		Booking:      bookingService,
		Slots:        slotService,
		Users:        userService,
		Classes:      service.NewClassService(classRepo, enrollmentRepo, userRepo, logger),
		Notification: service.NewNotificationService(notificationRepo),
		Chat:         chatService,
		Export:       service.NewExportService(appointmentRepo, loc, logger),
	}, handler.NewWSHandler(notifyHub, chatHub, chatService, cfg.CORSAllowOrigins, logger))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.Setup(cfg, h, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	scheduler.Stop()
	dispatcher.Stop()

	logger.Info("Server stopped")
}
