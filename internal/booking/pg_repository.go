package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Document,
		&d.Email,
		&d.SpecialtyID,
		&d.Slug,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Document,
		&p.Email,
		&p.EPS,
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

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.SpecialtyID,
		&a.Slug,
		&a.Date,
		&a.Time,
		&a.Status,
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

const appointmentColumns = `
	id_appointment, id_patient, id_doctor, id_specialty, slug,
	to_char(date, 'YYYY-MM-DD'), to_char("time", 'HH24:MI'),
	status, created_at, updated_at`

// Interface methods

func (r *PgRepository) ResolveDoctor(ctx context.Context, ref DoctorRef) (*Doctor, error) {
	q := `
		SELECT id_doctor, name, document, email, id_specialty, slug, status, created_at, updated_at
		FROM doctors
	`
	if id, ok := ref.ByID(); ok {
		return scanDoctor(r.pool.QueryRow(ctx, q+`WHERE id_doctor = $1`, id))
	}
	slug, _ := ref.BySlug()
	return scanDoctor(r.pool.QueryRow(ctx, q+`WHERE slug = $1`, slug))
}

func (r *PgRepository) CreateDoctor(ctx context.Context, d *Doctor) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (name, document, email, id_specialty, slug, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id_doctor, created_at, updated_at
	`, d.Name, d.Document, d.Email, d.SpecialtyID, d.Slug, d.Status)

	if err := row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

func (r *PgRepository) ListDoctors(ctx context.Context, onlyActive bool) ([]Doctor, error) {
	q := `
		SELECT id_doctor, name, document, email, id_specialty, slug, status, created_at, updated_at
		FROM doctors
	`
	if onlyActive {
		q += `WHERE status = 'active'
		`
	}
	q += `ORDER BY name`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (r *PgRepository) ListSpecialties(ctx context.Context) ([]Specialty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id_specialty, name
		FROM specialties
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Specialty
	for rows.Next() {
		var s Specialty
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetPatientByDocument(ctx context.Context, document string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id_patient, name, document, email, eps, created_at, updated_at
		FROM patients
		WHERE document = $1
	`, document)
	return scanPatient(row)
}

func (r *PgRepository) CreatePatient(ctx context.Context, p *Patient) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (name, document, email, eps, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id_patient, created_at, updated_at
	`, p.Name, p.Document, p.Email, p.EPS)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *PgRepository) UpdatePatient(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET name = $2,
		    email = $3,
		    eps = $4,
		    updated_at = now()
		WHERE id_patient = $1
	`, p.ID, p.Name, p.Email, p.EPS)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

func (r *PgRepository) BookedTimes(ctx context.Context, doctorID int64, date string, statuses []Status) ([]string, error) {
	states := make([]string, len(statuses))
	for i, s := range statuses {
		states[i] = string(s)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT to_char("time", 'HH24:MI')
		FROM appointments
		WHERE id_doctor = $1
		  AND date = $2
		  AND status = ANY($3)
		ORDER BY "time"
	`, doctorID, date, states)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	return result, rows.Err()
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a *Appointment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id_patient, id_doctor, id_specialty, slug, date, "time", status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id_appointment, created_at, updated_at
	`, a.PatientID, a.DoctorID, a.SpecialtyID, a.Slug, a.Date, a.Time, a.Status)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id_appointment = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentDetail(ctx context.Context, id int64) (*AppointmentDetail, error) {
	appt, err := r.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &AppointmentDetail{Appointment: *appt}

	patient, err := scanPatient(r.pool.QueryRow(ctx, `
		SELECT id_patient, name, document, email, eps, created_at, updated_at
		FROM patients
		WHERE id_patient = $1
	`, appt.PatientID))
	if err != nil && !errors.Is(err, ErrPatientNotFound) {
		return nil, err
	}
	detail.Patient = patient

	doctor, err := scanDoctor(r.pool.QueryRow(ctx, `
		SELECT id_doctor, name, document, email, id_specialty, slug, status, created_at, updated_at
		FROM doctors
		WHERE id_doctor = $1
	`, appt.DoctorID))
	if err != nil && !errors.Is(err, ErrDoctorNotFound) {
		return nil, err
	}
	detail.Doctor = doctor

	return detail, nil
}

func (r *PgRepository) ListAppointments(ctx context.Context) ([]AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id_appointment, a.id_patient, a.id_doctor, a.id_specialty, a.slug,
		       to_char(a.date, 'YYYY-MM-DD'), to_char(a."time", 'HH24:MI'),
		       a.status, a.created_at, a.updated_at,
		       p.name, p.document, d.name
		FROM appointments a
		LEFT JOIN patients p ON p.id_patient = a.id_patient
		LEFT JOIN doctors d ON d.id_doctor = a.id_doctor
		ORDER BY a.date DESC, a."time" DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDetails(rows)
}

func (r *PgRepository) ListAppointmentsBetween(ctx context.Context, doctorID int64, fromDate, toDate string) ([]AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id_appointment, a.id_patient, a.id_doctor, a.id_specialty, a.slug,
		       to_char(a.date, 'YYYY-MM-DD'), to_char(a."time", 'HH24:MI'),
		       a.status, a.created_at, a.updated_at,
		       p.name, p.document, d.name
		FROM appointments a
		LEFT JOIN patients p ON p.id_patient = a.id_patient
		LEFT JOIN doctors d ON d.id_doctor = a.id_doctor
		WHERE a.id_doctor = $1
		  AND a.date BETWEEN $2 AND $3
		ORDER BY a.date, a."time"
	`, doctorID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDetails(rows)
}

func collectDetails(rows pgx.Rows) ([]AppointmentDetail, error) {
	var result []AppointmentDetail
	for rows.Next() {
		var (
			d           AppointmentDetail
			patientName *string
			patientDoc  *string
			doctorName  *string
		)
		err := rows.Scan(
			&d.ID,
			&d.PatientID,
			&d.DoctorID,
			&d.SpecialtyID,
			&d.Slug,
			&d.Date,
			&d.Time,
			&d.Status,
			&d.CreatedAt,
			&d.UpdatedAt,
			&patientName,
			&patientDoc,
			&doctorName,
		)
		if err != nil {
			return nil, err
		}
		if patientName != nil {
			d.Patient = &Patient{ID: d.PatientID, Name: *patientName}
			if patientDoc != nil {
				d.Patient.Document = *patientDoc
			}
		}
		if doctorName != nil {
			d.Doctor = &Doctor{ID: d.DoctorID, Name: *doctorName}
		}
		result = append(result, d)
	}

	return result, rows.Err()
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id int64, from, to Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id_appointment = $1
		  AND status = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from)

	return scanAppointment(row)
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE id_appointment = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
