package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/clinichub/clinic-scheduling/internal/scheduling"
)

type RouterConfig struct {
	Scheduler *scheduling.Scheduler
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Slot listing
	r.Get("/doctor-services/{id}/slots", listSlotsHandler(cfg.Scheduler))

	// Booking lifecycle
	r.Post("/bookings", createBookingHandler(cfg.Scheduler))
	r.Get("/bookings/{id}", getBookingHandler(cfg.Scheduler))
	r.Post("/bookings/{id}/reschedule", rescheduleBookingHandler(cfg.Scheduler))
	r.Post("/bookings/{id}/cancel", cancelBookingHandler(cfg.Scheduler))
	r.Post("/bookings/{id}/check-in", checkInHandler(cfg.Scheduler))

	return r
}
