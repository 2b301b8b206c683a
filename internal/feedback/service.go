package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/metrics"
)

const dateLayout = "2006-01-02"

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
		log:     log.With().Str("resource", "feedback").Logger(),
	}
}

func (s *Service) WithClock(now backend.Clock) *Service {
	s.now = now
	return s
}

func (s *Service) GetAll(ctx context.Context, f Filter) backend.Envelope[[]Feedback] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[[]Feedback](err)
	}

	items, err := s.repo.List(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Msg("list feedback failed")
		return backend.Unavailable[[]Feedback]("Failed to load feedback")
	}
	return backend.List(items, "")
}

func (s *Service) GetByID(ctx context.Context, id int64) backend.Envelope[*Feedback] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Feedback](err)
	}

	fb, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.failure(err, "get")
	}
	return backend.OK(fb, "Feedback found")
}

// Create stamps the submission date to today. A missing category is derived
// from the effective rating and new feedback always starts Pending.
func (s *Service) Create(ctx context.Context, in Input) backend.Envelope[*Feedback] {
	id, err := s.ids.Next(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reserve feedback id failed")
		return backend.Unavailable[*Feedback]("Failed to submit feedback")
	}

	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Feedback](err)
	}

	now := s.now().UTC()
	fb := Feedback{
		ID:            id,
		FeedbackID:    backend.HumanID("FB", id),
		PatientID:     in.PatientID,
		PatientName:   in.PatientName,
		AppointmentID: in.AppointmentID,
		DoctorID:      in.DoctorID,
		DoctorName:    in.DoctorName,
		Rating:        in.Rating,
		Ratings:       in.Ratings,
		Comment:       in.Comment,
		Category:      in.Category,
		IsAnonymous:   in.IsAnonymous,
		Status:        StatusPending,
		Date:          now.Format(dateLayout),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	fb = fb.Clone()
	if fb.Category == "" {
		fb.Category = CategoryFor(fb.EffectiveRating())
	}

	if err := s.repo.Insert(ctx, fb); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("insert feedback failed")
		return backend.Unavailable[*Feedback]("Failed to submit feedback")
	}

	metrics.RecordCreated("feedback")
	s.log.Info().Int64("id", id).Int("rating", fb.EffectiveRating()).Str("category", string(fb.Category)).Msg("feedback submitted")

	return backend.OK(&fb, "Feedback submitted successfully")
}

// UpdateStatus sets the review status. Any known status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) backend.Envelope[*Feedback] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Feedback](err)
	}

	if !status.Valid() {
		return backend.Invalid[*Feedback]("Invalid feedback status: " + string(status))
	}

	updated, err := s.repo.Update(ctx, id, func(fb *Feedback) {
		fb.Status = status
		fb.UpdatedAt = backend.Restamp(fb.UpdatedAt, s.now().UTC())
	})
	if err != nil {
		return s.failure(err, "update status")
	}

	return backend.OK(updated, "Feedback status updated")
}

func (s *Service) failure(err error, op string) backend.Envelope[*Feedback] {
	if errors.Is(err, ErrFeedbackNotFound) {
		return backend.NotFound[*Feedback]("Feedback not found")
	}
	s.log.Error().Err(err).Str("op", op).Msg("feedback repository failed")
	return backend.Unavailable[*Feedback]("Feedback service unavailable")
}
