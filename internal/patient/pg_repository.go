package patient

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

const patientColumns = `id, patient_id, name, age, gender, email, phone, address, blood_group,
	conditions, last_visit, next_appointment, status, emergency_contact, insurance,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.PatientID,
		&p.Name,
		&p.Age,
		&p.Gender,
		&p.Email,
		&p.Phone,
		&p.Address,
		&p.BloodGroup,
		&p.Conditions,
		&p.LastVisit,
		&p.NextAppointment,
		&p.Status,
		&p.EmergencyContact,
		&p.Insurance,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) List(ctx context.Context, f Filter) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE ($1 = '' OR strpos(lower(name), lower($1)) > 0 OR strpos(lower(patient_id), lower($1)) > 0)
		  AND ($2 = '' OR status = $2)
		ORDER BY id
	`, f.Search, string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	result := []Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) Insert(ctx context.Context, p Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (`+patientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, p.ID, p.PatientID, p.Name, p.Age, p.Gender, p.Email, p.Phone, p.Address, p.BloodGroup,
		conditionsOrEmpty(p.Conditions), p.LastVisit, p.NextAppointment, string(p.Status),
		p.EmergencyContact, p.Insurance, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *PgRepository) Update(ctx context.Context, id int64, mutate func(*Patient)) (*Patient, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanPatient(tx.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
		FOR UPDATE
	`, id))
	if err != nil {
		return nil, err
	}

	mutate(p)

	_, err = tx.Exec(ctx, `
		UPDATE patients
		SET name = $2, age = $3, gender = $4, email = $5, phone = $6, address = $7,
		    blood_group = $8, conditions = $9, last_visit = $10, next_appointment = $11,
		    status = $12, emergency_contact = $13, insurance = $14, updated_at = $15
		WHERE id = $1
	`, p.ID, p.Name, p.Age, p.Gender, p.Email, p.Phone, p.Address, p.BloodGroup,
		conditionsOrEmpty(p.Conditions), p.LastVisit, p.NextAppointment, string(p.Status),
		p.EmergencyContact, p.Insurance, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return p, nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM patients
		WHERE id = $1
		RETURNING `+patientColumns, id)
	return scanPatient(row)
}

func (r *PgRepository) MaxID(ctx context.Context) (int64, error) {
	var max int64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM patients`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max patient id: %w", err)
	}
	return max, nil
}

func conditionsOrEmpty(c []string) []string {
	if c == nil {
		return []string{}
	}
	return c
}
