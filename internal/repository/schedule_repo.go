package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"olivebooking/internal/db"
)

const defaultBufferMinutes = 15

type ScheduleRepository struct {
	DB *sql.DB
}

func NewScheduleRepository(database *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: database}
}

func (r *ScheduleRepository) GetWeeklyRule(dayOfWeek int) (*db.AvailabilitySetting, error) {
	var rule db.AvailabilitySetting
	query := `SELECT id, day_of_week, start_time, end_time, is_active FROM availability_settings WHERE day_of_week = $1 AND is_active = true`
	err := r.DB.QueryRow(query, dayOfWeek).Scan(&rule.ID, &rule.DayOfWeek, &rule.StartTime, &rule.EndTime, &rule.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying weekly rule for day %d: %w", dayOfWeek, err)
	}
	return &rule, nil
}

func (r *ScheduleRepository) ListWeeklyRules() ([]db.AvailabilitySetting, error) {
	query := `SELECT id, day_of_week, start_time, end_time, is_active FROM availability_settings ORDER BY day_of_week`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying weekly rules: %w", err)
	}
	defer rows.Close()

	var rules []db.AvailabilitySetting
	for rows.Next() {
		var rule db.AvailabilitySetting
		if err := rows.Scan(&rule.ID, &rule.DayOfWeek, &rule.StartTime, &rule.EndTime, &rule.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning weekly rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// UpsertWeeklyRule keeps the one-rule-per-day invariant with an upsert on
// day_of_week.
func (r *ScheduleRepository) UpsertWeeklyRule(rule db.AvailabilitySetting) error {
	query := `
		INSERT INTO availability_settings (day_of_week, start_time, end_time, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day_of_week)
		DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, is_active = EXCLUDED.is_active`
	if _, err := r.DB.Exec(query, rule.DayOfWeek, rule.StartTime, rule.EndTime, rule.IsActive); err != nil {
		return fmt.Errorf("error upserting weekly rule for day %d: %w", rule.DayOfWeek, err)
	}
	return nil
}

func (r *ScheduleRepository) GetOverride(date string) (*db.AvailabilityOverride, error) {
	var o db.AvailabilityOverride
	query := `SELECT id, override_date, start_time, end_time, is_available, time_slots FROM availability_overrides WHERE override_date = $1`
	err := r.DB.QueryRow(query, date).Scan(&o.ID, &o.Date, &o.StartTime, &o.EndTime, &o.IsAvailable, &o.TimeSlots)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying override for %s: %w", date, err)
	}
	return &o, nil
}

func (r *ScheduleRepository) ListOverrides() ([]db.AvailabilityOverride, error) {
	query := `SELECT id, override_date, start_time, end_time, is_available, time_slots FROM availability_overrides ORDER BY override_date`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying overrides: %w", err)
	}
	defer rows.Close()

	var overrides []db.AvailabilityOverride
	for rows.Next() {
		var o db.AvailabilityOverride
		if err := rows.Scan(&o.ID, &o.Date, &o.StartTime, &o.EndTime, &o.IsAvailable, &o.TimeSlots); err != nil {
			return nil, fmt.Errorf("error scanning override: %w", err)
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func (r *ScheduleRepository) UpsertOverride(o db.AvailabilityOverride) error {
	query := `
		INSERT INTO availability_overrides (override_date, start_time, end_time, is_available, time_slots)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (override_date)
		DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			is_available = EXCLUDED.is_available, time_slots = EXCLUDED.time_slots`
	if _, err := r.DB.Exec(query, o.Date, o.StartTime, o.EndTime, o.IsAvailable, o.TimeSlots); err != nil {
		return fmt.Errorf("error upserting override for %s: %w", o.Date, err)
	}
	return nil
}

func (r *ScheduleRepository) DeleteOverride(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM availability_overrides WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting override %d: %w", id, err)
	}
	return nil
}

func (r *ScheduleRepository) IsBlackout(date string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM blackout_dates WHERE blackout_date = $1)`
	if err := r.DB.QueryRow(query, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking blackout for %s: %w", date, err)
	}
	return exists, nil
}

func (r *ScheduleRepository) ListBlackouts() ([]db.BlackoutDate, error) {
	rows, err := r.DB.Query(`SELECT id, blackout_date FROM blackout_dates ORDER BY blackout_date`)
	if err != nil {
		return nil, fmt.Errorf("error querying blackout dates: %w", err)
	}
	defer rows.Close()

	var blackouts []db.BlackoutDate
	for rows.Next() {
		var b db.BlackoutDate
		if err := rows.Scan(&b.ID, &b.Date); err != nil {
			return nil, fmt.Errorf("error scanning blackout date: %w", err)
		}
		blackouts = append(blackouts, b)
	}
	return blackouts, rows.Err()
}

func (r *ScheduleRepository) AddBlackout(date string) error {
	query := `INSERT INTO blackout_dates (blackout_date) VALUES ($1) ON CONFLICT (blackout_date) DO NOTHING`
	if _, err := r.DB.Exec(query, date); err != nil {
		return fmt.Errorf("error adding blackout for %s: %w", date, err)
	}
	return nil
}

func (r *ScheduleRepository) RemoveBlackout(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM blackout_dates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error removing blackout %d: %w", id, err)
	}
	return nil
}

// GetBufferMinutes reads the configured gap around existing appointments,
// falling back to 15 minutes when the key is absent or unreadable.
func (r *ScheduleRepository) GetBufferMinutes() (int, error) {
	var value string
	err := r.DB.QueryRow(`SELECT value FROM booking_configs WHERE key = 'buffer_minutes'`).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultBufferMinutes, nil
		}
		return 0, fmt.Errorf("error querying buffer config: %w", err)
	}
	minutes, err := strconv.Atoi(value)
	if err != nil || minutes < 0 {
		return defaultBufferMinutes, nil
	}
	return minutes, nil
}

func (r *ScheduleRepository) SetBufferMinutes(minutes int) error {
	query := `
		INSERT INTO booking_configs (key, value) VALUES ('buffer_minutes', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.DB.Exec(query, strconv.Itoa(minutes)); err != nil {
		return fmt.Errorf("error updating buffer config: %w", err)
	}
	return nil
}
