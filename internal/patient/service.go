package patient

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/metrics"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type Service struct {
	repo    Repository
	ids     backend.Sequencer
	latency *backend.Latency
	now     backend.Clock
	log     zerolog.Logger
}

func NewService(repo Repository, ids backend.Sequencer, latency *backend.Latency, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		ids:     ids,
		latency: latency,
		now:     time.Now,
		log:     log.With().Str("resource", "patients").Logger(),
	}
}

// WithClock swaps the time source, used by tests.
func (s *Service) WithClock(now backend.Clock) *Service {
	s.now = now
	return s
}

// GetAll returns the whole filtered set. Page and limit are reported back but
// the data is not sliced; paging is left to the caller.
func (s *Service) GetAll(ctx context.Context, f Filter) backend.Envelope[[]Patient] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[[]Patient](err)
	}

	patients, err := s.repo.List(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Msg("list patients failed")
		return backend.Unavailable[[]Patient]("Failed to load patients")
	}

	page, limit := f.Page, f.Limit
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	return backend.List(patients, "").WithPage(page, limit)
}

func (s *Service) GetByID(ctx context.Context, id int64) backend.Envelope[*Patient] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Patient](err)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.failure(err, "get")
	}
	return backend.OK(p, "Patient found")
}

// Create reserves the identifier before the simulated wait so concurrent
// creates never share an id.
func (s *Service) Create(ctx context.Context, in Input) backend.Envelope[*Patient] {
	id, err := s.ids.Next(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reserve patient id failed")
		return backend.Unavailable[*Patient]("Failed to create patient")
	}

	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Patient](err)
	}

	now := s.now().UTC()
	p := Patient{
		ID:               id,
		PatientID:        backend.HumanID("PAT", id),
		Name:             in.Name,
		Age:              in.Age,
		Gender:           in.Gender,
		Email:            in.Email,
		Phone:            in.Phone,
		Address:          in.Address,
		BloodGroup:       in.BloodGroup,
		Conditions:       in.Conditions,
		LastVisit:        in.LastVisit,
		NextAppointment:  in.NextAppointment,
		Status:           StatusActive,
		EmergencyContact: in.EmergencyContact,
		Insurance:        in.Insurance,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if p.Conditions == nil {
		p.Conditions = []string{}
	}
	p = p.Clone()

	if err := s.repo.Insert(ctx, p); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("insert patient failed")
		return backend.Unavailable[*Patient]("Failed to create patient")
	}

	metrics.RecordCreated("patients")
	s.log.Info().Int64("id", id).Str("patient_id", p.PatientID).Msg("patient created")

	return backend.OK(&p, "Patient created successfully")
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) backend.Envelope[*Patient] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Patient](err)
	}

	updated, err := s.repo.Update(ctx, id, func(p *Patient) {
		patch.Apply(p)
		p.UpdatedAt = backend.Restamp(p.UpdatedAt, s.now().UTC())
	})
	if err != nil {
		return s.failure(err, "update")
	}

	return backend.OK(updated, "Patient updated successfully")
}

func (s *Service) Delete(ctx context.Context, id int64) backend.Envelope[*Patient] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Patient](err)
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.failure(err, "delete")
	}

	metrics.RecordDeleted("patients")
	s.log.Info().Int64("id", id).Msg("patient deleted")

	return backend.OK(removed, "Patient deleted successfully")
}

func (s *Service) failure(err error, op string) backend.Envelope[*Patient] {
	if errors.Is(err, ErrPatientNotFound) {
		return backend.NotFound[*Patient]("Patient not found")
	}
	s.log.Error().Err(err).Str("op", op).Msg("patient repository failed")
	return backend.Unavailable[*Patient]("Patient service unavailable")
}
