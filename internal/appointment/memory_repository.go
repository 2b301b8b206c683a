package appointment

import (
	"context"
	"sync"
)

type MemoryRepository struct {
	mu           sync.RWMutex
	appointments []Appointment
}

func NewMemoryRepository(seed []Appointment) *MemoryRepository {
	return &MemoryRepository{appointments: append([]Appointment(nil), seed...)}
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appointments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (r *MemoryRepository) Insert(_ context.Context, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.appointments = append(r.appointments, a)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, mutate func(*Appointment) error) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.appointments {
		if r.appointments[i].ID != id {
			continue
		}
		updated := r.appointments[i]
		if err := mutate(&updated); err != nil {
			return nil, err
		}
		r.appointments[i] = updated
		return &updated, nil
	}
	return nil, ErrAppointmentNotFound
}

func (r *MemoryRepository) MaxID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max int64
	for _, a := range r.appointments {
		if a.ID > max {
			max = a.ID
		}
	}
	return max, nil
}

func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.appointments)
}
