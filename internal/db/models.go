package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. An appointment is created pending and only an admin
// moves it on from there; cancelled rows are kept for audit.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type AppointmentType struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active"`
}

// AvailabilitySetting is the recurring weekly rule, at most one active row
// per day of week (0 = Sunday).
type AvailabilitySetting struct {
	ID        int    `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

// TimeWindow is one start/end pair inside an override's time_slots column.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeWindows maps the jsonb time_slots column.
type TimeWindows []TimeWindow

func (w TimeWindows) Value() (driver.Value, error) {
	if w == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(w)
}

func (w *TimeWindows) Scan(value any) error {
	if value == nil {
		*w = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("time_slots: expected []byte, got %T", value)
	}
	return json.Unmarshal(b, w)
}

// AvailabilityOverride supersedes the weekly rule for one date. TimeSlots is
// the newer multi-window form; StartTime/EndTime remain as the single-window
// fallback when TimeSlots is empty.
type AvailabilityOverride struct {
	ID          int         `json:"id"`
	Date        string      `json:"date"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	IsAvailable bool        `json:"is_available"`
	TimeSlots   TimeWindows `json:"time_slots"`
}

type BlackoutDate struct {
	ID   int    `json:"id"`
	Date string `json:"date"`
}

type Appointment struct {
	ID            uuid.UUID `json:"id"`
	TypeID        uuid.UUID `json:"appointment_type_id"`
	TypeName      string    `json:"appointment_type_name,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Notes         string    `json:"notes"`
	Date          string    `json:"appointment_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
