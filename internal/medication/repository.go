package medication

import (
	"context"
	"errors"
	"sync"
)

var ErrMedicationNotFound = errors.New("medication not found")

type Repository interface {
	List(ctx context.Context, category string) ([]Medication, error)
	GetByID(ctx context.Context, id int64) (*Medication, error)
	Insert(ctx context.Context, m Medication) error
	Update(ctx context.Context, id int64, mutate func(*Medication) error) (*Medication, error)
	MaxID(ctx context.Context) (int64, error)

	AppendLog(ctx context.Context, e LogEntry) error
	// Log returns entries newest first; medicationID 0 means all.
	Log(ctx context.Context, medicationID int64) ([]LogEntry, error)
	MaxLogID(ctx context.Context) (int64, error)
}

type MemoryRepository struct {
	mu          sync.RWMutex
	medications []Medication
	log         []LogEntry
}

func NewMemoryRepository(meds []Medication, log []LogEntry) *MemoryRepository {
	r := &MemoryRepository{log: append([]LogEntry(nil), log...)}
	for _, m := range meds {
		r.medications = append(r.medications, m.Clone())
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context, category string) ([]Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Medication, 0, len(r.medications))
	for _, m := range r.medications {
		if category == "" || category == "all" || m.Category == category {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.medications {
		if m.ID == id {
			c := m.Clone()
			return &c, nil
		}
	}
	return nil, ErrMedicationNotFound
}

func (r *MemoryRepository) Insert(_ context.Context, m Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.medications = append(r.medications, m.Clone())
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, mutate func(*Medication) error) (*Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.medications {
		if r.medications[i].ID != id {
			continue
		}
		updated := r.medications[i].Clone()
		if err := mutate(&updated); err != nil {
			return nil, err
		}
		r.medications[i] = updated.Clone()
		return &updated, nil
	}
	return nil, ErrMedicationNotFound
}

func (r *MemoryRepository) MaxID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max int64
	for _, m := range r.medications {
		if m.ID > max {
			max = m.ID
		}
	}
	return max, nil
}

func (r *MemoryRepository) AppendLog(_ context.Context, e LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log = append(r.log, e)
	return nil
}

func (r *MemoryRepository) Log(_ context.Context, medicationID int64) ([]LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]LogEntry, 0, len(r.log))
	for i := len(r.log) - 1; i >= 0; i-- {
		if medicationID == 0 || r.log[i].MedicationID == medicationID {
			out = append(out, r.log[i])
		}
	}
	return out, nil
}

func (r *MemoryRepository) MaxLogID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max int64
	for _, e := range r.log {
		if e.ID > max {
			max = e.ID
		}
	}
	return max, nil
}
