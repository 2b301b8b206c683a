// Package client is the contract the dashboard codes against. The mock
// implementation calls the services in process; the remote one talks to the
// HTTP API. Both return the same envelopes.
package client

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/analytics"
	"github.com/hackgods/medi-assist/internal/app"
	"github.com/hackgods/medi-assist/internal/appointment"
	"github.com/hackgods/medi-assist/internal/auth"
	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/config"
	"github.com/hackgods/medi-assist/internal/doctor"
	"github.com/hackgods/medi-assist/internal/feedback"
	"github.com/hackgods/medi-assist/internal/medication"
	"github.com/hackgods/medi-assist/internal/patient"
	"github.com/hackgods/medi-assist/internal/seed"
	"github.com/hackgods/medi-assist/internal/session"
)

type PatientAPI interface {
	GetAll(ctx context.Context, f patient.Filter) backend.Envelope[[]patient.Patient]
	GetByID(ctx context.Context, id int64) backend.Envelope[*patient.Patient]
	Create(ctx context.Context, in patient.Input) backend.Envelope[*patient.Patient]
	Update(ctx context.Context, id int64, patch patient.Patch) backend.Envelope[*patient.Patient]
	Delete(ctx context.Context, id int64) backend.Envelope[*patient.Patient]
}

type AppointmentAPI interface {
	GetAll(ctx context.Context, f appointment.Filter) backend.Envelope[[]appointment.Appointment]
	GetByID(ctx context.Context, id int64) backend.Envelope[*appointment.Appointment]
	Create(ctx context.Context, in appointment.Input) backend.Envelope[*appointment.Appointment]
	Update(ctx context.Context, id int64, patch appointment.Patch) backend.Envelope[*appointment.Appointment]
	Transition(ctx context.Context, id int64, to appointment.Status, note string) backend.Envelope[*appointment.Appointment]
}

type FeedbackAPI interface {
	GetAll(ctx context.Context, f feedback.Filter) backend.Envelope[[]feedback.Feedback]
	GetByID(ctx context.Context, id int64) backend.Envelope[*feedback.Feedback]
	Create(ctx context.Context, in feedback.Input) backend.Envelope[*feedback.Feedback]
	UpdateStatus(ctx context.Context, id int64, status feedback.Status) backend.Envelope[*feedback.Feedback]
}

type DoctorAPI interface {
	GetAll(ctx context.Context) backend.Envelope[[]doctor.Doctor]
	GetByID(ctx context.Context, id string) backend.Envelope[*doctor.Doctor]
	GetAvailability(ctx context.Context, id, date string) backend.Envelope[*doctor.Availability]
}

type AnalyticsAPI interface {
	GetDashboard(ctx context.Context) backend.Envelope[*analytics.Snapshot]
	GetPatientStats(ctx context.Context) backend.Envelope[*analytics.PatientStats]
	GetAppointmentStats(ctx context.Context) backend.Envelope[*analytics.AppointmentStats]
	GetFeedbackStats(ctx context.Context) backend.Envelope[*analytics.FeedbackStats]
}

type AuthAPI interface {
	Login(ctx context.Context, creds auth.Credentials) backend.Envelope[*auth.Session]
	Register(ctx context.Context, reg auth.Registration) backend.Envelope[*auth.Session]
	Logout(ctx context.Context) backend.Envelope[any]
	RefreshToken(ctx context.Context, refreshToken string) backend.Envelope[*auth.Tokens]
	Profile(ctx context.Context, accessToken string) backend.Envelope[*auth.User]
}

type MedicationAPI interface {
	GetAll(ctx context.Context, category string) backend.Envelope[[]medication.Medication]
	GetByID(ctx context.Context, id int64) backend.Envelope[*medication.Medication]
	Create(ctx context.Context, in medication.Input) backend.Envelope[*medication.Medication]
	MarkTaken(ctx context.Context, id int64, scheduled *time.Time) backend.Envelope[*medication.Intake]
	Log(ctx context.Context, medicationID int64) backend.Envelope[[]medication.LogEntry]
	TodaysDoses(ctx context.Context, date string) backend.Envelope[[]medication.Dose]
}

// API groups one client per resource.
type API struct {
	Patients     PatientAPI
	Appointments AppointmentAPI
	Feedback     FeedbackAPI
	Doctors      DoctorAPI
	Analytics    AnalyticsAPI
	Auth         AuthAPI
	Medications  MedicationAPI
}

// NewMock serves every call from in-process services.
func NewMock(svc app.Services) API {
	return API{
		Patients:     svc.Patients,
		Appointments: svc.Appointments,
		Feedback:     svc.Feedback,
		Doctors:      svc.Doctors,
		Analytics:    svc.Analytics,
		Auth:         svc.Auth,
		Medications:  svc.Medications,
	}
}

// New picks the mock or the remote implementation from cfg.UseMockAPI.
func New(cfg config.Config, sess *session.Session, log zerolog.Logger) API {
	if cfg.UseMockAPI {
		latency := backend.NewLatency(cfg.LatencyMin, cfg.LatencyMax)
		tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshTokenTTL)
		log.Debug().Msg("using mock API")
		return NewMock(app.NewInMemory(seed.Load(time.Now()), latency, tokens, log))
	}

	log.Debug().Str("base_url", cfg.APIBaseURL).Msg("using remote API")
	return NewRemote(cfg.APIBaseURL, sess, &http.Client{Timeout: 30 * time.Second}, log)
}
