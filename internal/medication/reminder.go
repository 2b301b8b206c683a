package medication

import (
	"context"
	"time"

	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/metrics"
)

const reminderLockName = "medication-reminders"

// Locker serialises the sweep across replicas sharing one store.
type Locker interface {
	WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// WithLocker makes every sweep run under lock.
func (s *Service) WithLocker(l Locker) *Service {
	s.lock = l
	return s
}

// maxMissedPerSweep bounds how many overdue doses one medication can log in a
// single sweep after a long outage.
const maxMissedPerSweep = 28

// SweepMissedDoses logs a missed entry for every reminder-enabled dose that is
// more than grace overdue and moves the next dose forward past now. It returns
// the number of missed entries written.
func (s *Service) SweepMissedDoses(ctx context.Context, grace time.Duration) (int, error) {
	meds, err := s.repo.List(ctx, "")
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	missed := 0

	for _, candidate := range meds {
		if !candidate.ReminderEnabled || candidate.NextDose == nil || DoseInterval(candidate.Frequency) == 0 {
			continue
		}
		if now.Sub(*candidate.NextDose) <= grace {
			continue
		}

		var overdue []LogEntry
		_, err := s.repo.Update(ctx, candidate.ID, func(m *Medication) error {
			overdue = overdue[:0]
			interval := DoseInterval(m.Frequency)
			if m.NextDose == nil || interval == 0 {
				return nil
			}
			next := *m.NextDose
			for now.Sub(next) > grace && len(overdue) < maxMissedPerSweep {
				overdue = append(overdue, LogEntry{
					MedicationID:   m.ID,
					MedicationName: m.Name,
					ScheduledTime:  next,
					Status:         DoseMissed,
				})
				next = next.Add(interval)
			}
			for now.Sub(next) > grace {
				next = next.Add(interval)
			}
			m.NextDose = &next
			m.UpdatedAt = backend.Restamp(m.UpdatedAt, now)
			return nil
		})
		if err != nil {
			return missed, err
		}

		for _, e := range overdue {
			id, err := s.logIDs.Next(ctx)
			if err != nil {
				return missed, err
			}
			e.ID = id
			if err := s.repo.AppendLog(ctx, e); err != nil {
				return missed, err
			}
			metrics.RecordDose(DoseMissed)
			missed++
		}

		if len(overdue) > 0 {
			s.log.Warn().Int64("id", candidate.ID).Str("name", candidate.Name).Int("missed", len(overdue)).Msg("missed doses recorded")
		}
	}

	return missed, nil
}

// RunReminders sweeps once at startup and then every interval until ctx ends.
func (s *Service) RunReminders(ctx context.Context, interval, grace time.Duration) error {
	s.sweepOnce(ctx, grace)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("stopping reminder sweeper")
			return nil
		case <-ticker.C:
			s.sweepOnce(ctx, grace)
		}
	}
}

func (s *Service) sweepOnce(ctx context.Context, grace time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	var n int
	run := func(ctx context.Context) error {
		var err error
		n, err = s.SweepMissedDoses(ctx, grace)
		return err
	}

	var err error
	if s.lock != nil {
		err = s.lock.WithLock(runCtx, reminderLockName, run)
	} else {
		err = run(runCtx)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("reminder sweep did not complete")
		return
	}
	s.log.Debug().Int("missed", n).Dur("took", time.Since(start)).Msg("reminder sweep complete")
}
