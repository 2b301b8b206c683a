package medication

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/metrics"
)

var (
	ErrNoPillsRemaining = errors.New("no pills remaining")
	ErrInvalidTimeSlot  = errors.New("invalid time slot")
)

type Service struct {
	repo    Repository
	ids     backend.Sequencer
	logIDs  backend.Sequencer
	latency *backend.Latency
	now     backend.Clock
	lock    Locker
	log     zerolog.Logger
}

func NewService(repo Repository, ids, logIDs backend.Sequencer, latency *backend.Latency, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		ids:     ids,
		logIDs:  logIDs,
		latency: latency,
		now:     time.Now,
		log:     log.With().Str("resource", "medications").Logger(),
	}
}

func (s *Service) WithClock(now backend.Clock) *Service {
	s.now = now
	return s
}

// GetAll filters by category; "" and "all" return everything.
func (s *Service) GetAll(ctx context.Context, category string) backend.Envelope[[]Medication] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[[]Medication](err)
	}

	meds, err := s.repo.List(ctx, category)
	if err != nil {
		s.log.Error().Err(err).Msg("list medications failed")
		return backend.Unavailable[[]Medication]("Failed to load medications")
	}
	return backend.List(meds, "")
}

func (s *Service) GetByID(ctx context.Context, id int64) backend.Envelope[*Medication] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Medication](err)
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failure[*Medication](s.log, err)
	}
	return backend.OK(m, "Medication found")
}

// Create starts a prescription at full adherence with every pill remaining.
// The first dose is the first time slot on the start date.
func (s *Service) Create(ctx context.Context, in Input) backend.Envelope[*Medication] {
	id, err := s.ids.Next(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reserve medication id failed")
		return backend.Unavailable[*Medication]("Failed to add medication")
	}

	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Medication](err)
	}

	slots, err := normalizeSlots(in.TimeSlots)
	if err != nil {
		return backend.Invalid[*Medication]("Invalid time slot, expected HH:MM")
	}

	now := s.now().UTC()
	m := Medication{
		ID:              id,
		Name:            in.Name,
		GenericName:     in.GenericName,
		Dosage:          in.Dosage,
		Frequency:       in.Frequency,
		TimeSlots:       slots,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		PrescribedBy:    in.PrescribedBy,
		Instructions:    in.Instructions,
		SideEffects:     in.SideEffects,
		Adherence:       100,
		TotalPills:      in.TotalPills,
		PillsRemaining:  in.TotalPills,
		ReminderEnabled: in.ReminderEnabled,
		Category:        in.Category,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if m.Category == "" {
		m.Category = "other"
	}
	if len(slots) > 0 {
		if first, err := time.Parse(dateLayout+" 15:04", in.StartDate+" "+slots[0]); err == nil {
			m.NextDose = &first
		}
	}

	if err := s.repo.Insert(ctx, m); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("insert medication failed")
		return backend.Unavailable[*Medication]("Failed to add medication")
	}

	metrics.RecordCreated("medications")
	s.log.Info().Int64("id", id).Str("name", m.Name).Msg("medication added")

	return backend.OK(&m, "Medication added successfully")
}

// MarkTaken records one dose. scheduled defaults to the medication's next
// dose. The pill counts, adherence and next dose move together with the log.
func (s *Service) MarkTaken(ctx context.Context, id int64, scheduled *time.Time) backend.Envelope[*Intake] {
	logID, err := s.logIDs.Next(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reserve log id failed")
		return backend.Unavailable[*Intake]("Failed to record medication")
	}

	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Intake](err)
	}

	now := s.now().UTC()
	var entry LogEntry
	updated, err := s.repo.Update(ctx, id, func(m *Medication) error {
		// TotalPills 0 means the supply is not tracked.
		if m.TotalPills > 0 && m.PillsRemaining <= 0 {
			return ErrNoPillsRemaining
		}

		when := now
		if scheduled != nil {
			when = scheduled.UTC()
		} else if m.NextDose != nil {
			when = *m.NextDose
		}

		m.Adherence = Adherence(*m, m.PillsTaken+1, now)
		m.PillsTaken++
		if m.TotalPills > 0 {
			m.PillsRemaining--
		}
		taken := now
		m.LastTaken = &taken
		if interval := DoseInterval(m.Frequency); interval > 0 {
			next := now.Add(interval)
			m.NextDose = &next
		} else {
			m.NextDose = nil
		}
		m.UpdatedAt = backend.Restamp(m.UpdatedAt, now)

		entry = LogEntry{
			ID:             logID,
			MedicationID:   m.ID,
			MedicationName: m.Name,
			ScheduledTime:  when,
			TakenTime:      &taken,
			Status:         DoseTaken,
		}
		return nil
	})
	if err != nil {
		return failure[*Intake](s.log, err)
	}

	if err := s.repo.AppendLog(ctx, entry); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("append dose log failed")
		return backend.Unavailable[*Intake]("Failed to record medication")
	}

	metrics.RecordDose(DoseTaken)
	s.log.Info().Int64("id", id).Int("remaining", updated.PillsRemaining).Int("adherence", updated.Adherence).Msg("dose taken")

	return backend.OK(&Intake{Medication: *updated, Entry: entry}, updated.Name+" marked as taken")
}

// Log lists dose history newest first; medicationID 0 means every medication.
func (s *Service) Log(ctx context.Context, medicationID int64) backend.Envelope[[]LogEntry] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[[]LogEntry](err)
	}

	entries, err := s.repo.Log(ctx, medicationID)
	if err != nil {
		s.log.Error().Err(err).Msg("list dose log failed")
		return backend.Unavailable[[]LogEntry]("Failed to load medication log")
	}
	return backend.List(entries, "")
}

// TodaysDoses expands every medication's time slots on date (YYYY-MM-DD, empty
// for today) and marks the slots already logged as taken. Doses are ordered
// by time slot.
func (s *Service) TodaysDoses(ctx context.Context, date string) backend.Envelope[[]Dose] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[[]Dose](err)
	}

	if date == "" {
		date = s.now().UTC().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return backend.Invalid[[]Dose]("Invalid date, expected YYYY-MM-DD")
	}

	meds, err := s.repo.List(ctx, "")
	if err != nil {
		s.log.Error().Err(err).Msg("list medications failed")
		return backend.Unavailable[[]Dose]("Failed to load doses")
	}
	entries, err := s.repo.Log(ctx, 0)
	if err != nil {
		s.log.Error().Err(err).Msg("list dose log failed")
		return backend.Unavailable[[]Dose]("Failed to load doses")
	}

	taken := make(map[int64]map[string]bool)
	for _, e := range entries {
		if e.Status != DoseTaken || e.ScheduledTime.Format(dateLayout) != date {
			continue
		}
		if taken[e.MedicationID] == nil {
			taken[e.MedicationID] = make(map[string]bool)
		}
		taken[e.MedicationID][e.ScheduledTime.Format("15:04")] = true
	}

	var doses []Dose
	for _, m := range meds {
		for _, slot := range m.TimeSlots {
			at, err := time.Parse(dateLayout+" 15:04", date+" "+slot)
			if err != nil {
				continue
			}
			doses = append(doses, Dose{
				MedicationID:   m.ID,
				MedicationName: m.Name,
				Dosage:         m.Dosage,
				TimeSlot:       slot,
				ScheduledTime:  at,
				Taken:          taken[m.ID][at.Format("15:04")],
			})
		}
	}
	sort.SliceStable(doses, func(i, j int) bool {
		return doses[i].TimeSlot < doses[j].TimeSlot
	})

	return backend.List(doses, "")
}

func failure[T any](log zerolog.Logger, err error) backend.Envelope[T] {
	switch {
	case errors.Is(err, ErrMedicationNotFound):
		return backend.NotFound[T]("Medication not found")
	case errors.Is(err, ErrNoPillsRemaining):
		return backend.Invalid[T]("No pills remaining")
	}
	log.Error().Err(err).Msg("medication repository failed")
	return backend.Unavailable[T]("Medication service unavailable")
}

// normalizeSlots drops blank slots and rewrites the rest as HH:MM, so "8:00"
// and "08:00" name the same dose.
func normalizeSlots(raw []string) ([]string, error) {
	slots := make([]string, 0, len(raw))
	for _, slot := range raw {
		slot = strings.TrimSpace(slot)
		if slot == "" {
			continue
		}
		t, err := time.Parse("15:04", slot)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrInvalidTimeSlot, slot)
		}
		slots = append(slots, t.Format("15:04"))
	}
	return slots, nil
}
