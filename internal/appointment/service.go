package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/metrics"
)

var ErrInvalidStatusTransition = errors.New("invalid status transition")

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
		log:     log.With().Str("resource", "appointments").Logger(),
	}
}

func (s *Service) WithClock(now backend.Clock) *Service {
	s.now = now
	return s
}

func (s *Service) GetAll(ctx context.Context, f Filter) backend.Envelope[[]Appointment] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[[]Appointment](err)
	}

	appts, err := s.repo.List(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Msg("list appointments failed")
		return backend.Unavailable[[]Appointment]("Failed to load appointments")
	}
	return backend.List(appts, "")
}

func (s *Service) GetByID(ctx context.Context, id int64) backend.Envelope[*Appointment] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Appointment](err)
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.failure(err, "get")
	}
	return backend.OK(a, "Appointment found")
}

// Create always books in the Scheduled state, whatever the caller sent.
func (s *Service) Create(ctx context.Context, in Input) backend.Envelope[*Appointment] {
	id, err := s.ids.Next(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reserve appointment id failed")
		return backend.Unavailable[*Appointment]("Failed to schedule appointment")
	}

	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Appointment](err)
	}

	now := s.now().UTC()
	a := Appointment{
		ID:            id,
		AppointmentID: backend.HumanID("APT", id),
		PatientID:     in.PatientID,
		PatientName:   in.PatientName,
		DoctorID:      in.DoctorID,
		DoctorName:    in.DoctorName,
		Department:    in.Department,
		Date:          in.Date,
		Time:          in.Time,
		Duration:      in.Duration,
		Type:          in.Type,
		Status:        StatusScheduled,
		Reason:        in.Reason,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, a); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("insert appointment failed")
		return backend.Unavailable[*Appointment]("Failed to schedule appointment")
	}

	metrics.RecordCreated("appointments")
	s.log.Info().
		Int64("id", id).
		Int64("patient_id", a.PatientID).
		Str("doctor_id", a.DoctorID).
		Str("date", a.Date).
		Msg("appointment scheduled")

	return backend.OK(&a, "Appointment scheduled successfully")
}

// Update merges the patch as-is. Status changes here are not checked against
// the lifecycle; use Transition for that.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) backend.Envelope[*Appointment] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Appointment](err)
	}

	var from Status
	updated, err := s.repo.Update(ctx, id, func(a *Appointment) error {
		from = a.Status
		patch.Apply(a)
		a.UpdatedAt = backend.Restamp(a.UpdatedAt, s.now().UTC())
		return nil
	})
	if err != nil {
		return s.failure(err, "update")
	}

	if updated.Status != from {
		metrics.RecordAppointmentTransition(string(from), string(updated.Status))
	}

	return backend.OK(updated, "Appointment updated successfully")
}

// Transition moves an appointment along its lifecycle, rejecting moves the
// lifecycle does not allow. A non-empty note is stored in Notes.
func (s *Service) Transition(ctx context.Context, id int64, to Status, note string) backend.Envelope[*Appointment] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Appointment](err)
	}

	var from Status
	updated, err := s.repo.Update(ctx, id, func(a *Appointment) error {
		from = a.Status
		if !a.Status.CanTransitionTo(to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, a.Status, to)
		}
		a.Status = to
		if note != "" {
			a.Notes = note
		}
		a.UpdatedAt = backend.Restamp(a.UpdatedAt, s.now().UTC())
		return nil
	})
	if err != nil {
		return s.failure(err, "transition")
	}

	metrics.RecordAppointmentTransition(string(from), string(to))
	s.log.Info().Int64("id", id).Str("from", string(from)).Str("to", string(to)).Msg("appointment status changed")

	return backend.OK(updated, "Appointment status updated to "+string(to))
}

// Cancel is Transition to Cancelled.
func (s *Service) Cancel(ctx context.Context, id int64, reason string) backend.Envelope[*Appointment] {
	return s.Transition(ctx, id, StatusCancelled, reason)
}

func (s *Service) failure(err error, op string) backend.Envelope[*Appointment] {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		return backend.NotFound[*Appointment]("Appointment not found")
	case errors.Is(err, ErrInvalidStatusTransition):
		return backend.Invalid[*Appointment](err.Error())
	}
	s.log.Error().Err(err).Str("op", op).Msg("appointment repository failed")
	return backend.Unavailable[*Appointment]("Appointment service unavailable")
}
