package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"olivebooking/internal/db"
	apperrors "olivebooking/internal/errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(database *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: database}
}

func (r *AppointmentRepository) GetAppointmentType(id uuid.UUID) (*db.AppointmentType, error) {
	var t db.AppointmentType
	query := `SELECT id, name, duration_minutes, is_active FROM appointment_types WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.Name, &t.DurationMinutes, &t.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying appointment type %s: %w", id, err)
	}
	return &t, nil
}

func (r *AppointmentRepository) ListActiveAppointmentTypes() ([]db.AppointmentType, error) {
	query := `SELECT id, name, duration_minutes, is_active FROM appointment_types WHERE is_active = true ORDER BY duration_minutes`
	return r.queryTypes(query)
}

func (r *AppointmentRepository) ListAppointmentTypes() ([]db.AppointmentType, error) {
	query := `SELECT id, name, duration_minutes, is_active FROM appointment_types ORDER BY duration_minutes`
	return r.queryTypes(query)
}

func (r *AppointmentRepository) queryTypes(query string) ([]db.AppointmentType, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying appointment types: %w", err)
	}
	defer rows.Close()

	var types []db.AppointmentType
	for rows.Next() {
		var t db.AppointmentType
		if err := rows.Scan(&t.ID, &t.Name, &t.DurationMinutes, &t.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning appointment type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *AppointmentRepository) CreateAppointmentType(t *db.AppointmentType) error {
	t.ID = uuid.New()
	query := `INSERT INTO appointment_types (id, name, duration_minutes, is_active) VALUES ($1, $2, $3, $4)`
	if _, err := r.DB.Exec(query, t.ID, t.Name, t.DurationMinutes, t.IsActive); err != nil {
		return fmt.Errorf("error creating appointment type: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) UpdateAppointmentType(t *db.AppointmentType) error {
	query := `UPDATE appointment_types SET name = $2, duration_minutes = $3, is_active = $4 WHERE id = $1`
	if _, err := r.DB.Exec(query, t.ID, t.Name, t.DurationMinutes, t.IsActive); err != nil {
		return fmt.Errorf("error updating appointment type %s: %w", t.ID, err)
	}
	return nil
}

// ListAppointmentsForDate returns the non-cancelled appointments of a date,
// the set the conflict filter runs against.
func (r *AppointmentRepository) ListAppointmentsForDate(date string) ([]db.Appointment, error) {
	query := `
		SELECT id, appointment_type_id, customer_name, customer_email, notes,
			appointment_date, start_time, end_time, status, created_at, updated_at
		FROM appointments
		WHERE appointment_date = $1 AND status != 'cancelled'
		ORDER BY start_time`
	rows, err := r.DB.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments for %s: %w", date, err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *AppointmentRepository) ListAppointments() ([]db.Appointment, error) {
	query := `
		SELECT a.id, a.appointment_type_id, t.name, a.customer_name, a.customer_email, a.notes,
			a.appointment_date, a.start_time, a.end_time, a.status, a.created_at, a.updated_at
		FROM appointments a
		JOIN appointment_types t ON a.appointment_type_id = t.id
		ORDER BY a.appointment_date, a.start_time`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := rows.Scan(&a.ID, &a.TypeID, &a.TypeName, &a.CustomerName, &a.CustomerEmail, &a.Notes,
			&a.Date, &a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

// CreateAppointment inserts a pending appointment inside a transaction that
// first takes a per-date advisory lock, so concurrent bookings for the same
// day serialize. The unique index on (appointment_date, start_time) is the
// storage backstop: a unique violation means another booking won the slot and
// comes back as the 409 conflict error.
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, a *db.Appointment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, a.Date); err != nil {
		return fmt.Errorf("error taking booking lock for %s: %w", a.Date, err)
	}

	a.ID = uuid.New()
	query := `
		INSERT INTO appointments
		(id, appointment_type_id, customer_name, customer_email, notes, appointment_date, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		a.ID, a.TypeID, a.CustomerName, a.CustomerEmail, a.Notes,
		a.Date, a.StartTime, a.EndTime, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.ErrSlotUnavailable()
		}
		return fmt.Errorf("error inserting appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing booking transaction: %w", err)
	}
	return nil
}

// UpdateAppointmentStatus flips the status and returns the row joined with
// its type name so the notifier has everything it needs.
func (r *AppointmentRepository) UpdateAppointmentStatus(id uuid.UUID, status string) (*db.Appointment, error) {
	var a db.Appointment
	query := `
		UPDATE appointments a SET status = $2, updated_at = NOW()
		FROM appointment_types t
		WHERE a.id = $1 AND t.id = a.appointment_type_id
		RETURNING a.id, a.appointment_type_id, t.name, a.customer_name, a.customer_email, a.notes,
			a.appointment_date, a.start_time, a.end_time, a.status, a.created_at, a.updated_at`
	err := r.DB.QueryRow(query, id, status).Scan(
		&a.ID, &a.TypeID, &a.TypeName, &a.CustomerName, &a.CustomerEmail, &a.Notes,
		&a.Date, &a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound(fmt.Sprintf("appointment %s not found", id))
		}
		return nil, fmt.Errorf("error updating status of appointment %s: %w", id, err)
	}
	return &a, nil
}

func scanAppointments(rows *sql.Rows) ([]db.Appointment, error) {
	var appointments []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := rows.Scan(&a.ID, &a.TypeID, &a.CustomerName, &a.CustomerEmail, &a.Notes,
			&a.Date, &a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}
