package feedback

import (
	"context"
	"errors"
	"sync"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

type Repository interface {
	List(ctx context.Context, f Filter) ([]Feedback, error)
	GetByID(ctx context.Context, id int64) (*Feedback, error)
	Insert(ctx context.Context, fb Feedback) error
	Update(ctx context.Context, id int64, mutate func(*Feedback)) (*Feedback, error)
	MaxID(ctx context.Context) (int64, error)
}

type MemoryRepository struct {
	mu    sync.RWMutex
	items []Feedback
}

func NewMemoryRepository(seed []Feedback) *MemoryRepository {
	r := &MemoryRepository{items: make([]Feedback, 0, len(seed))}
	for _, fb := range seed {
		r.items = append(r.items, fb.Clone())
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Feedback, 0, len(r.items))
	for _, fb := range r.items {
		if f.Matches(fb) {
			out = append(out, fb.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, fb := range r.items {
		if fb.ID == id {
			c := fb.Clone()
			return &c, nil
		}
	}
	return nil, ErrFeedbackNotFound
}

func (r *MemoryRepository) Insert(_ context.Context, fb Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, fb.Clone())
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, mutate func(*Feedback)) (*Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		updated := r.items[i].Clone()
		mutate(&updated)
		r.items[i] = updated.Clone()
		return &updated, nil
	}
	return nil, ErrFeedbackNotFound
}

func (r *MemoryRepository) MaxID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max int64
	for _, fb := range r.items {
		if fb.ID > max {
			max = fb.ID
		}
	}
	return max, nil
}

func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
