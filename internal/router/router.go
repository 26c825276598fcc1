package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/booking-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/booking-api/internal/handler/auth"
	notificationHandler "github.com/jwalitptl/booking-api/internal/handler/notification"
	"github.com/jwalitptl/booking-api/internal/middleware"
)

type Handlers struct {
	Auth         *authHandler.Handler
	Appointment  *appointmentHandler.Handler
	Notification *notificationHandler.Handler
	Health       *handler.HealthHandler
}

func New(cfg *config.Config, authMw *middleware.AuthMiddleware, h Handlers) *gin.Engine {
	registerValidations()

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())
	engine.Use(middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst).RateLimit())

	engine.GET("/health", h.Health.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/api/v1")
	v1.POST("/auth/login", h.Auth.Login)

	authed := v1.Group("")
	authed.Use(authMw.Authenticate())
	{
		authed.POST("/appointments", h.Appointment.CreateAppointment)
		authed.GET("/appointments", h.Appointment.ListAppointments)
		authed.GET("/appointments/:id", h.Appointment.GetAppointment)
		authed.PUT("/appointments/:id", h.Appointment.UpdateAppointment)
		authed.GET("/notifications", h.Notification.ListNotifications)

		admin := authed.Group("")
		admin.Use(authMw.RequireAdmin())
		admin.POST("/appointments/reconcile", h.Appointment.Reconcile)
	}

	return engine
}
