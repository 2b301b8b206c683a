package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/app"
	"github.com/hackgods/medi-assist/internal/auth"
	"github.com/hackgods/medi-assist/internal/metrics"
)

type RouterConfig struct {
	Services     app.Services
	Tokens       *auth.TokenManager
	AuthRequired bool
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Env          string
	Version      string
	Logger       zerolog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoverMiddleware(cfg.Logger))
	r.Use(metrics.Middleware)

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", metrics.Handler())

	svc := cfg.Services
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", loginHandler(svc.Auth))
		r.Post("/auth/register", registerHandler(svc.Auth))
		r.Post("/auth/refresh", refreshHandler(svc.Auth))

		r.Group(func(r chi.Router) {
			if cfg.AuthRequired {
				r.Use(AuthMiddleware(cfg.Tokens))
			}

			r.Post("/auth/logout", logoutHandler(svc.Auth))
			r.Get("/auth/profile", profileHandler(svc.Auth))

			r.Get("/patients", listPatientsHandler(svc.Patients))
			r.Post("/patients", createPatientHandler(svc.Patients))
			r.Get("/patients/search", listPatientsHandler(svc.Patients))
			r.Get("/patients/{id}", getPatientHandler(svc.Patients))
			r.Put("/patients/{id}", updatePatientHandler(svc.Patients))
			r.Delete("/patients/{id}", deletePatientHandler(svc.Patients))

			r.Get("/appointments", listAppointmentsHandler(svc.Appointments))
			r.Post("/appointments", createAppointmentHandler(svc.Appointments))
			r.Get("/appointments/by-date", appointmentsByDateHandler(svc.Appointments))
			r.Get("/appointments/patient/{id}", appointmentsByPatientHandler(svc.Appointments))
			r.Get("/appointments/doctor/{id}", appointmentsByDoctorHandler(svc.Appointments))
			r.Get("/appointments/{id}", getAppointmentHandler(svc.Appointments))
			r.Put("/appointments/{id}", updateAppointmentHandler(svc.Appointments))
			r.Patch("/appointments/{id}", transitionAppointmentHandler(svc.Appointments))

			r.Get("/feedback", listFeedbackHandler(svc.Feedback))
			r.Post("/feedback", createFeedbackHandler(svc.Feedback))
			r.Get("/feedback/stats", feedbackStatsHandler(svc.Analytics))
			r.Get("/feedback/patient/{id}", feedbackByPatientHandler(svc.Feedback))
			r.Get("/feedback/{id}", getFeedbackHandler(svc.Feedback))
			r.Patch("/feedback/{id}", updateFeedbackStatusHandler(svc.Feedback))

			r.Get("/doctors", listDoctorsHandler(svc.Doctors))
			r.Get("/doctors/{id}", getDoctorHandler(svc.Doctors))
			r.Get("/doctors/{id}/availability", doctorAvailabilityHandler(svc.Doctors))

			r.Get("/analytics/dashboard", dashboardHandler(svc.Analytics))
			r.Get("/analytics/patients", patientStatsHandler(svc.Analytics))
			r.Get("/analytics/appointments", appointmentStatsHandler(svc.Analytics))
			r.Get("/analytics/feedback", feedbackStatsHandler(svc.Analytics))

			r.Get("/medications", listMedicationsHandler(svc.Medications))
			r.Post("/medications", createMedicationHandler(svc.Medications))
			r.Get("/medications/doses/today", todaysDosesHandler(svc.Medications))
			r.Get("/medications/log", medicationLogHandler(svc.Medications))
			r.Get("/medications/{id}", getMedicationHandler(svc.Medications))
			r.Post("/medications/{id}/taken", markTakenHandler(svc.Medications))
		})
	})

	return r
}
