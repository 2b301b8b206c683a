package doctor

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
)

type Service struct {
	repo    Repository
	latency *backend.Latency
	log     zerolog.Logger
}

func NewService(repo Repository, latency *backend.Latency, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		latency: latency,
		log:     log.With().Str("resource", "doctors").Logger(),
	}
}

func (s *Service) GetAll(ctx context.Context) backend.Envelope[[]Doctor] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[[]Doctor](err)
	}

	doctors, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list doctors failed")
		return backend.Unavailable[[]Doctor]("Failed to load doctors")
	}
	return backend.List(doctors, "")
}

func (s *Service) GetByID(ctx context.Context, id string) backend.Envelope[*Doctor] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Doctor](err)
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failure[*Doctor](s.log, err)
	}
	return backend.OK(d, "Doctor found")
}

// GetAvailability reports the doctor's hours on the weekday of date
// (YYYY-MM-DD).
func (s *Service) GetAvailability(ctx context.Context, id, date string) backend.Envelope[*Availability] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Availability](err)
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return backend.Invalid[*Availability]("Invalid date, expected YYYY-MM-DD")
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failure[*Availability](s.log, err)
	}

	a := d.AvailabilityOn(day)
	if !a.Available {
		return backend.OK(&a, "Doctor not available on "+a.Weekday)
	}
	return backend.OK(&a, "Doctor available")
}

func failure[T any](log zerolog.Logger, err error) backend.Envelope[T] {
	if errors.Is(err, ErrDoctorNotFound) {
		return backend.NotFound[T]("Doctor not found")
	}
	log.Error().Err(err).Msg("doctor repository failed")
	return backend.Unavailable[T]("Doctor service unavailable")
}
