package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/appointment"
	"github.com/hackgods/medi-assist/internal/config"
	"github.com/hackgods/medi-assist/internal/db"
	"github.com/hackgods/medi-assist/internal/logging"
	"github.com/hackgods/medi-assist/internal/patient"
	redisclient "github.com/hackgods/medi-assist/internal/redis"
	"github.com/hackgods/medi-assist/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("seed", "info", "", false)
		bootLog.Fatal().Err(err).Msg("config load error")
	}
	log := logging.New("seed", cfg.LogLevel, cfg.LogFormat, cfg.Production())
	log.Info().Msg("seed starting")

	if cfg.PostgresDSN == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if err := db.Reset(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("reset")
	}

	ds := seed.Load(time.Now())
	patients := patient.NewPgRepository(pool)
	appts := appointment.NewPgRepository(pool)

	faker := gofakeit.New(seedValue())
	fakes := seed.FakePatients(faker, int64(len(ds.Patients)), fakePatientCount())

	if err := seedPatients(ctx, log, patients, append(ds.Patients, fakes...)); err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}
	for _, a := range ds.Appointments {
		if err := appts.Insert(ctx, a); err != nil {
			log.Fatal().Err(err).Str("appointment_id", a.AppointmentID).Msg("seed appointments")
		}
	}
	log.Info().Int("count", len(ds.Appointments)).Msg("appointments seeded")

	if cfg.RedisAddr != "" {
		if err := raiseSequences(ctx, cfg, patients, appts); err != nil {
			log.Fatal().Err(err).Msg("raise id sequences")
		}
		log.Info().Msg("redis id sequences raised")
	}

	log.Info().Msg("seed complete")
}

func seedPatients(ctx context.Context, log zerolog.Logger, repo *patient.PgRepository, all []patient.Patient) error {
	log.Info().Int("count", len(all)).Msg("seeding patients")

	const progressEvery = 500
	for i, p := range all {
		if err := repo.Insert(ctx, p); err != nil {
			return err
		}
		if (i+1)%progressEvery == 0 {
			log.Info().Msgf("patients seeded: %d/%d", i+1, len(all))
		}
	}

	log.Info().Msg("patients seeded")
	return nil
}

// raiseSequences moves the shared id counters above the freshly seeded rows.
func raiseSequences(ctx context.Context, cfg config.Config, patients *patient.PgRepository, appts *appointment.PgRepository) error {
	rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		return err
	}
	defer rdb.Close()

	for name, maxID := range map[string]func(context.Context) (int64, error){
		"patients":     patients.MaxID,
		"appointments": appts.MaxID,
	} {
		max, err := maxID(ctx)
		if err != nil {
			return err
		}
		if _, err := redisclient.NewSequencer(rdb, name).EnsureFloor(ctx, max); err != nil {
			return err
		}
	}
	return nil
}

func fakePatientCount() int {
	if n, err := strconv.Atoi(os.Getenv("SEED_FAKE_PATIENTS")); err == nil && n >= 0 {
		return n
	}
	return 200
}

// seedValue makes runs reproducible when SEED_VALUE is set.
func seedValue() uint64 {
	if n, err := strconv.ParseUint(os.Getenv("SEED_VALUE"), 10, 64); err == nil {
		return n
	}
	return uint64(time.Now().UnixNano())
}
