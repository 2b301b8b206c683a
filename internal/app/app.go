// Package app wires repositories, id sequencers and services from config.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/analytics"
	"github.com/hackgods/medi-assist/internal/appointment"
	"github.com/hackgods/medi-assist/internal/auth"
	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/config"
	"github.com/hackgods/medi-assist/internal/db"
	"github.com/hackgods/medi-assist/internal/doctor"
	"github.com/hackgods/medi-assist/internal/feedback"
	"github.com/hackgods/medi-assist/internal/medication"
	"github.com/hackgods/medi-assist/internal/patient"
	redisclient "github.com/hackgods/medi-assist/internal/redis"
	"github.com/hackgods/medi-assist/internal/seed"
)

// Services is one service per resource. Every method returns an envelope.
type Services struct {
	Patients     *patient.Service
	Appointments *appointment.Service
	Feedback     *feedback.Service
	Doctors      *doctor.Service
	Analytics    *analytics.Service
	Auth         *auth.Service
	Medications  *medication.Service
}

// Backend owns the services and the connections behind them.
type Backend struct {
	Services Services
	Tokens   *auth.TokenManager
	Pg       *pgxpool.Pool
	Redis    *redis.Client
}

// NewInMemory builds isolated services over a copy of ds with in-process id
// counters. Tests and the mock client use it.
func NewInMemory(ds seed.Dataset, latency *backend.Latency, tokens *auth.TokenManager, log zerolog.Logger) Services {
	ctx := context.Background()
	patients := patient.NewMemoryRepository(ds.Patients)
	appts := appointment.NewMemoryRepository(ds.Appointments)
	fb := feedback.NewMemoryRepository(ds.Feedback)
	meds := medication.NewMemoryRepository(ds.Medications, ds.MedicationLog)

	// Memory repositories never fail.
	maxPatient, _ := patients.MaxID(ctx)
	maxAppt, _ := appts.MaxID(ctx)
	maxFeedback, _ := fb.MaxID(ctx)
	maxMed, _ := meds.MaxID(ctx)
	maxLog, _ := meds.MaxLogID(ctx)

	return Services{
		Patients:     patient.NewService(patients, backend.NewCounter(maxPatient), latency, log),
		Appointments: appointment.NewService(appts, backend.NewCounter(maxAppt), latency, log),
		Feedback:     feedback.NewService(fb, backend.NewCounter(maxFeedback), latency, log),
		Doctors:      doctor.NewService(doctor.NewMemoryRepository(ds.Doctors), latency, log),
		Analytics:    analytics.NewService(ds.Analytics, latency),
		Auth:         auth.NewService(tokens, latency, log),
		Medications:  medication.NewService(meds, backend.NewCounter(maxMed), backend.NewCounter(maxLog), latency, log),
	}
}

// Build connects to Postgres and Redis when configured and falls back to
// memory otherwise. Patients and appointments move to Postgres; every id
// sequencer moves to Redis.
func Build(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Backend, error) {
	latency := backend.NewLatency(cfg.LatencyMin, cfg.LatencyMax)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshTokenTTL)
	ds := seed.Load(time.Now())

	b := &Backend{Tokens: tokens}

	if cfg.PostgresDSN != "" {
		pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancel()
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		b.Pg = pool
		log.Info().Msg("connected to Postgres")
	}

	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Redis = rdb
		log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")
	}

	var patientRepo patient.Repository = patient.NewMemoryRepository(ds.Patients)
	var apptRepo appointment.Repository = appointment.NewMemoryRepository(ds.Appointments)
	fbRepo := feedback.NewMemoryRepository(ds.Feedback)
	medRepo := medication.NewMemoryRepository(ds.Medications, ds.MedicationLog)
	if b.Pg != nil {
		patientRepo = patient.NewPgRepository(b.Pg)
		apptRepo = appointment.NewPgRepository(b.Pg)
	}

	seqs := map[string]backend.Sequencer{}
	maxes := map[string]func(context.Context) (int64, error){
		"patients":       patientRepo.MaxID,
		"appointments":   apptRepo.MaxID,
		"feedback":       fbRepo.MaxID,
		"medications":    medRepo.MaxID,
		"medication_log": medRepo.MaxLogID,
	}
	for name, maxID := range maxes {
		seq, err := b.sequencer(ctx, name, maxID)
		if err != nil {
			b.Close()
			return nil, err
		}
		seqs[name] = seq
	}

	meds := medication.NewService(medRepo, seqs["medications"], seqs["medication_log"], latency, log)
	if b.Redis != nil {
		meds.WithLocker(redisclient.NewLocker(b.Redis, time.Minute))
	}

	b.Services = Services{
		Patients:     patient.NewService(patientRepo, seqs["patients"], latency, log),
		Appointments: appointment.NewService(apptRepo, seqs["appointments"], latency, log),
		Feedback:     feedback.NewService(fbRepo, seqs["feedback"], latency, log),
		Doctors:      doctor.NewService(doctor.NewMemoryRepository(ds.Doctors), latency, log),
		Analytics:    analytics.NewService(ds.Analytics, latency),
		Auth:         auth.NewService(tokens, latency, log),
		Medications:  meds,
	}

	return b, nil
}

func (b *Backend) sequencer(ctx context.Context, name string, maxID func(context.Context) (int64, error)) (backend.Sequencer, error) {
	max, err := maxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("max id for %s: %w", name, err)
	}

	if b.Redis == nil {
		return backend.NewCounter(max), nil
	}

	seq := redisclient.NewSequencer(b.Redis, name)
	if _, err := seq.EnsureFloor(ctx, max); err != nil {
		return nil, err
	}
	return seq, nil
}

func (b *Backend) Close() {
	if b.Pg != nil {
		b.Pg.Close()
	}
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
}
