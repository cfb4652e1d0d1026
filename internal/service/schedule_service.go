package service

import (
	"log"
	"time"

	"olivebooking/internal/availability"
	"olivebooking/internal/db"
	apperrors "olivebooking/internal/errors"
	"olivebooking/internal/repository"
)

// ScheduleService is the admin back-office over availability configuration:
// weekly rules, per-date overrides, blackout dates, buffer and appointment
// types.
type ScheduleService struct {
	Repo            *repository.ScheduleRepository
	AppointmentRepo *repository.AppointmentRepository
}

func NewScheduleService(repo *repository.ScheduleRepository, appointmentRepo *repository.AppointmentRepository) *ScheduleService {
	return &ScheduleService{Repo: repo, AppointmentRepo: appointmentRepo}
}

func (s *ScheduleService) ListWeeklyRules() ([]db.AvailabilitySetting, error) {
	return s.Repo.ListWeeklyRules()
}

func (s *ScheduleService) UpsertWeeklyRule(rule db.AvailabilitySetting) error {
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return apperrors.ErrInvalidInput("day_of_week must be between 0 and 6")
	}
	if err := validateWindow(rule.StartTime, rule.EndTime); err != nil {
		return err
	}
	return s.Repo.UpsertWeeklyRule(rule)
}

func (s *ScheduleService) ListOverrides() ([]db.AvailabilityOverride, error) {
	return s.Repo.ListOverrides()
}

func (s *ScheduleService) UpsertOverride(o db.AvailabilityOverride) error {
	if _, err := time.Parse(dateLayout, o.Date); err != nil {
		return apperrors.ErrInvalidInput("Invalid date, expected YYYY-MM-DD")
	}
	if o.IsAvailable {
		if len(o.TimeSlots) > 0 {
			for _, w := range o.TimeSlots {
				if err := validateWindow(w.Start, w.End); err != nil {
					return err
				}
			}
		} else {
			if o.StartTime == "" {
				o.StartTime = "09:00:00"
			}
			if o.EndTime == "" {
				o.EndTime = "17:00:00"
			}
			if err := validateWindow(o.StartTime, o.EndTime); err != nil {
				return err
			}
		}
	}
	return s.Repo.UpsertOverride(o)
}

func (s *ScheduleService) DeleteOverride(id int) error {
	return s.Repo.DeleteOverride(id)
}

func (s *ScheduleService) ListBlackouts() ([]db.BlackoutDate, error) {
	return s.Repo.ListBlackouts()
}

func (s *ScheduleService) AddBlackout(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return apperrors.ErrInvalidInput("Invalid date, expected YYYY-MM-DD")
	}
	return s.Repo.AddBlackout(date)
}

func (s *ScheduleService) RemoveBlackout(id int) error {
	return s.Repo.RemoveBlackout(id)
}

func (s *ScheduleService) GetBufferMinutes() (int, error) {
	return s.Repo.GetBufferMinutes()
}

func (s *ScheduleService) SetBufferMinutes(minutes int) error {
	if minutes < 0 || minutes > 240 {
		return apperrors.ErrInvalidInput("buffer_minutes must be between 0 and 240")
	}
	return s.Repo.SetBufferMinutes(minutes)
}

func (s *ScheduleService) ListAppointmentTypes() ([]db.AppointmentType, error) {
	return s.AppointmentRepo.ListAppointmentTypes()
}

func (s *ScheduleService) CreateAppointmentType(t *db.AppointmentType) error {
	if t.Name == "" || t.DurationMinutes <= 0 {
		return apperrors.ErrInvalidInput("name and a positive duration_minutes are required")
	}
	return s.AppointmentRepo.CreateAppointmentType(t)
}

func (s *ScheduleService) UpdateAppointmentType(t *db.AppointmentType) error {
	if t.Name == "" || t.DurationMinutes <= 0 {
		return apperrors.ErrInvalidInput("name and a positive duration_minutes are required")
	}
	return s.AppointmentRepo.UpdateAppointmentType(t)
}

// validateWindow rejects windows an admin should never be able to save. The
// resolver drops invalid rows defensively anyway, this keeps them out of the
// store in the first place.
func validateWindow(start, end string) error {
	day := time.Now()
	s, errStart := availability.ParseClock(day, start)
	e, errEnd := availability.ParseClock(day, end)
	if errStart != nil || errEnd != nil {
		log.Printf("Rejected schedule window %q-%q", start, end)
		return apperrors.ErrInvalidInput("Times must be HH:mm or HH:mm:ss")
	}
	if !s.Before(e) {
		return apperrors.ErrInvalidInput("start_time must be before end_time")
	}
	return nil
}
