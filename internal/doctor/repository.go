package doctor

import (
	"context"
	"errors"
	"sync"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type Repository interface {
	List(ctx context.Context) ([]Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
}

type MemoryRepository struct {
	mu      sync.RWMutex
	doctors []Doctor
}

func NewMemoryRepository(seed []Doctor) *MemoryRepository {
	r := &MemoryRepository{doctors: make([]Doctor, 0, len(seed))}
	for _, d := range seed {
		r.doctors = append(r.doctors, d.Clone())
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, d.Clone())
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.doctors {
		if d.ID == id {
			c := d.Clone()
			return &c, nil
		}
	}
	return nil, ErrDoctorNotFound
}
