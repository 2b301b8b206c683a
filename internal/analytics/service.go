package analytics

import (
	"context"

	"github.com/hackgods/medi-assist/internal/backend"
)

type Service struct {
	snapshot Snapshot
	latency  *backend.Latency
}

// NewService serves a copy of snapshot for the life of the process; later
// writes to other resources are not reflected.
func NewService(snapshot Snapshot, latency *backend.Latency) *Service {
	return &Service{snapshot: snapshot.Clone(), latency: latency}
}

func (s *Service) GetDashboard(ctx context.Context) backend.Envelope[*Snapshot] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Snapshot](err)
	}
	snap := s.snapshot.Clone()
	return backend.OK(&snap, "")
}

func (s *Service) GetPatientStats(ctx context.Context) backend.Envelope[*PatientStats] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*PatientStats](err)
	}
	stats := s.snapshot.Clone().PatientStats
	return backend.OK(&stats, "")
}

func (s *Service) GetAppointmentStats(ctx context.Context) backend.Envelope[*AppointmentStats] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*AppointmentStats](err)
	}
	stats := s.snapshot.Clone().AppointmentStats
	return backend.OK(&stats, "")
}

func (s *Service) GetFeedbackStats(ctx context.Context) backend.Envelope[*FeedbackStats] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*FeedbackStats](err)
	}
	stats := s.snapshot.Clone().FeedbackStats
	return backend.OK(&stats, "")
}
