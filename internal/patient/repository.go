package patient

import (
	"context"
	"errors"
)

var ErrPatientNotFound = errors.New("patient not found")

// Repository owns the patient collection. Implementations keep insertion order.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Patient, error)
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Insert(ctx context.Context, p Patient) error

	// Update loads the record, lets mutate change it and persists the result
	// atomically with respect to other writers.
	Update(ctx context.Context, id int64, mutate func(*Patient)) (*Patient, error)
	Delete(ctx context.Context, id int64) (*Patient, error)

	// MaxID seeds the identifier sequence at startup.
	MaxID(ctx context.Context) (int64, error)
}
