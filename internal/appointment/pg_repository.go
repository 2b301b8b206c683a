package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `id, appointment_id, patient_id, patient_name, doctor_id, doctor_name,
	department, date, time, duration, type, status, reason, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.AppointmentID,
		&a.PatientID,
		&a.PatientName,
		&a.DoctorID,
		&a.DoctorName,
		&a.Department,
		&a.Date,
		&a.Time,
		&a.Duration,
		&a.Type,
		&a.Status,
		&a.Reason,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgRepository) List(ctx context.Context, f Filter) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE ($1 = 0 OR patient_id = $1)
		  AND ($2 = '' OR doctor_id = $2)
		  AND ($3 = '' OR date = $3)
		  AND ($4 = '' OR status = $4)
		ORDER BY id
	`, f.PatientID, f.DoctorID, f.Date, string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	result := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) Insert(ctx context.Context, a Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, a.ID, a.AppointmentID, a.PatientID, a.PatientName, a.DoctorID, a.DoctorName,
		a.Department, a.Date, a.Time, a.Duration, a.Type, string(a.Status), a.Reason, a.Notes,
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) Update(ctx context.Context, id int64, mutate func(*Appointment) error) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	a, err := scanAppointment(tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id))
	if err != nil {
		return nil, err
	}

	if err := mutate(a); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE appointments
		SET patient_id = $2, patient_name = $3, doctor_id = $4, doctor_name = $5,
		    department = $6, date = $7, time = $8, duration = $9, type = $10,
		    status = $11, reason = $12, notes = $13, updated_at = $14
		WHERE id = $1
	`, a.ID, a.PatientID, a.PatientName, a.DoctorID, a.DoctorName, a.Department, a.Date,
		a.Time, a.Duration, a.Type, string(a.Status), a.Reason, a.Notes, a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return a, nil
}

func (r *PgRepository) MaxID(ctx context.Context) (int64, error) {
	var max int64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM appointments`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max appointment id: %w", err)
	}
	return max, nil
}
