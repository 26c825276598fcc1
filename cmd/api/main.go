package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/email"
	"github.com/jwalitptl/booking-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/booking-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/booking-api/internal/handler/auth"
	notificationHandler "github.com/jwalitptl/booking-api/internal/handler/notification"
	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository/cached"
	"github.com/jwalitptl/booking-api/internal/repository/postgres"
	"github.com/jwalitptl/booking-api/internal/router"
	appointmentService "github.com/jwalitptl/booking-api/internal/service/appointment"
	authService "github.com/jwalitptl/booking-api/internal/service/auth"
	notificationService "github.com/jwalitptl/booking-api/internal/service/notification"
	"github.com/jwalitptl/booking-api/pkg/auth"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/messaging"
	redisBroker "github.com/jwalitptl/booking-api/pkg/messaging/redis"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, notification fan-out disabled")
		} else {
			defer broker.Close()
		}
	}

	workStart, err := model.ParseTimeOfDay(cfg.Booking.WorkStart)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid booking.work_start")
	}
	workEnd, err := model.ParseTimeOfDay(cfg.Booking.WorkEnd)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid booking.work_end")
	}

	userRepo := postgres.NewUserRepository(db)
	departmentRepo := cached.NewDepartmentRepository(postgres.NewDepartmentRepository(db))
	serviceRepo := cached.NewServiceRepository(postgres.NewServiceRepository(db))
	appointmentRepo := postgres.NewAppointmentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.New("booking", prometheus.DefaultRegisterer)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	emailSvc := email.NewSMTPService(email.Config{
		Enabled:  cfg.Mail.Enabled,
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}, log.Logger)

	notifSvc := notificationService.NewService(notificationRepo, broker, appLogger)
	authSvc := authService.NewService(userRepo, jwtSvc)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		userRepo,
		departmentRepo,
		serviceRepo,
		notifSvc,
		emailSvc,
		appMetrics,
		appLogger,
		appointmentService.Hours{Start: workStart, End: workEnd},
		cfg.Booking.DefaultLocation,
	)

	engine := router.New(cfg, middleware.NewAuthMiddleware(jwtSvc), router.Handlers{
		Auth:         authHandler.NewHandler(authSvc),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc),
		Notification: notificationHandler.NewHandler(notifSvc),
		Health:       handler.NewHealthHandler(db),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
