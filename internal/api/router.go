package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clinicalocal/clinic-booking/internal/booking"
)

type RouterConfig struct {
	Service *booking.Service
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Logger  zerolog.Logger
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public agenda
	r.Get("/specialties", listSpecialtiesHandler(cfg.Service))
	r.Get("/doctors", listDoctorsHandler(cfg.Service))
	r.Get("/doctors/{doctor}", getDoctorHandler(cfg.Service))
	r.Get("/doctors/{doctor}/availability", availabilityHandler(cfg.Service))
	r.Post("/appointments", bookAppointmentHandler(cfg.Service))
	r.Post("/patients", registerPatientHandler(cfg.Service))

	// Administration
	r.Post("/doctors", createDoctorHandler(cfg.Service))
	r.Get("/doctors/{doctor}/appointments", weeklyAgendaHandler(cfg.Service))
	r.Get("/appointments", listAppointmentsHandler(cfg.Service))
	r.Post("/appointments/{id}/approve", transitionHandler(cfg.Service.Approve))
	r.Post("/appointments/{id}/deny", transitionHandler(cfg.Service.Deny))
	r.Post("/appointments/{id}/complete", transitionHandler(cfg.Service.Complete))
	r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Service))

	return r
}
