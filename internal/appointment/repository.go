package appointment

import (
	"context"
	"errors"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// Repository owns the appointment collection.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Appointment, error)
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Insert(ctx context.Context, a Appointment) error

	// Update runs mutate on the stored record under the repository's write
	// guard. mutate may return an error to abort without persisting.
	Update(ctx context.Context, id int64, mutate func(*Appointment) error) (*Appointment, error)

	MaxID(ctx context.Context) (int64, error)
}
