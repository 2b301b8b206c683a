package patient

import (
	"context"
	"sync"
)

// MemoryRepository keeps patients in a slice guarded by a mutex. Callers only
// ever receive copies.
type MemoryRepository struct {
	mu       sync.RWMutex
	patients []Patient
}

func NewMemoryRepository(seed []Patient) *MemoryRepository {
	r := &MemoryRepository{patients: make([]Patient, 0, len(seed))}
	for _, p := range seed {
		r.patients = append(r.patients, p.Clone())
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Patient, 0, len(r.patients))
	for _, p := range r.patients {
		if f.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrPatientNotFound
	}
	p := r.patients[i].Clone()
	return &p, nil
}

func (r *MemoryRepository) Insert(_ context.Context, p Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.patients = append(r.patients, p.Clone())
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, mutate func(*Patient)) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrPatientNotFound
	}

	updated := r.patients[i].Clone()
	mutate(&updated)
	r.patients[i] = updated

	out := updated.Clone()
	return &out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrPatientNotFound
	}

	removed := r.patients[i]
	r.patients = append(r.patients[:i], r.patients[i+1:]...)
	return &removed, nil
}

func (r *MemoryRepository) MaxID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max int64
	for _, p := range r.patients {
		if p.ID > max {
			max = p.ID
		}
	}
	return max, nil
}

// Len is used by tests to check collection size.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.patients)
}

func (r *MemoryRepository) indexOf(id int64) int {
	for i := range r.patients {
		if r.patients[i].ID == id {
			return i
		}
	}
	return -1
}
