package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/email"
	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository/cached"
	"github.com/jwalitptl/booking-api/internal/repository/postgres"
	appointmentService "github.com/jwalitptl/booking-api/internal/service/appointment"
	notificationService "github.com/jwalitptl/booking-api/internal/service/notification"
	"github.com/jwalitptl/booking-api/internal/worker"
	"github.com/jwalitptl/booking-api/pkg/logger"
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
	appMetrics := metrics.New("booking_worker", prometheus.DefaultRegisterer)
	emailSvc := email.NewSMTPService(email.Config{
		Enabled:  cfg.Mail.Enabled,
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}, log.Logger)

	notifSvc := notificationService.NewService(notificationRepo, nil, appLogger)
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler := worker.NewReconciler(appointmentSvc, cfg.Booking.ReconcileInterval, appLogger)
	go reconciler.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
}
