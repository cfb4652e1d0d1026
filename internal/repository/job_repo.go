package repository

import (
	"database/sql"
	"fmt"

	"olivebooking/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetConfirmedAppointmentsForDate returns the confirmed appointments of a
// date joined with their service name, for the daily reminder job.
func (r *JobRepository) GetConfirmedAppointmentsForDate(date string) ([]db.Appointment, error) {
	query := `
		SELECT a.id, a.appointment_type_id, t.name, a.customer_name, a.customer_email, a.notes,
			a.appointment_date, a.start_time, a.end_time, a.status, a.created_at, a.updated_at
		FROM appointments a
		JOIN appointment_types t ON a.appointment_type_id = t.id
		WHERE a.appointment_date = $1 AND a.status = 'confirmed'
		ORDER BY a.start_time`
	rows, err := r.DB.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed appointments for %s: %w", date, err)
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
