package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"olivebooking/internal/availability"
	"olivebooking/internal/db"
	"olivebooking/internal/entities"
	apperrors "olivebooking/internal/errors"
	"olivebooking/internal/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type BookingService struct {
	Repo         *repository.AppointmentRepository
	ScheduleRepo *repository.ScheduleRepository
	notifier     *NotifyService
}

func NewBookingService(repo *repository.AppointmentRepository, scheduleRepo *repository.ScheduleRepository, notifier *NotifyService) *BookingService {
	return &BookingService{
		Repo:         repo,
		ScheduleRepo: scheduleRepo,
		notifier:     notifier,
	}
}

func (s *BookingService) ListAppointmentTypes() ([]db.AppointmentType, error) {
	return s.Repo.ListActiveAppointmentTypes()
}

// GetAvailableSlots runs the full resolve-generate-filter pipeline for a date
// and appointment type. Every candidate comes back, blocked ones included, so
// the widget can render the whole day.
func (s *BookingService) GetAvailableSlots(date, typeID string) ([]entities.SlotResponse, error) {
	slots, err := s.computeSlots(date, typeID)
	if err != nil {
		return nil, err
	}

	out := make([]entities.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, entities.SlotResponse{
			StartTime: availability.FormatClock(slot.Start),
			EndTime:   availability.FormatClock(slot.End),
			Available: slot.Available,
		})
	}
	return out, nil
}

// CreateBooking re-validates the chosen slot against a fresh configuration
// snapshot before persisting, closing the gap between the client's earlier
// availability query and submission. The repository's advisory lock plus the
// unique index settle whatever race remains.
func (s *BookingService) CreateBooking(ctx context.Context, req *entities.BookingRequest) (*db.Appointment, error) {
	if req.TypeID == "" || req.Name == "" || req.Email == "" || req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		return nil, apperrors.ErrInvalidInput("Missing required fields")
	}

	slots, err := s.computeSlots(req.Date, req.TypeID)
	if err != nil {
		return nil, err
	}

	day, _ := time.Parse(dateLayout, req.Date)
	chosenStart, err := availability.ParseClock(day, req.StartTime)
	if err != nil {
		return nil, apperrors.ErrInvalidInput("Invalid start_time")
	}
	chosenEnd, err := availability.ParseClock(day, req.EndTime)
	if err != nil {
		return nil, apperrors.ErrInvalidInput("Invalid end_time")
	}

	stillAvailable := false
	for _, slot := range slots {
		if slot.Available && slot.Start.Equal(chosenStart) && slot.End.Equal(chosenEnd) {
			stillAvailable = true
			break
		}
	}
	if !stillAvailable {
		return nil, apperrors.ErrSlotUnavailable()
	}

	appointment := &db.Appointment{
		TypeID:        uuid.MustParse(req.TypeID), // validated by computeSlots
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		Notes:         req.Notes,
		Date:          req.Date,
		StartTime:     availability.FormatClock(chosenStart),
		EndTime:       availability.FormatClock(chosenEnd),
		Status:        db.StatusPending,
	}
	if err := s.Repo.CreateAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	s.notifier.SendNewBookingSMS(*appointment)
	return appointment, nil
}

func (s *BookingService) ListAppointments() ([]db.Appointment, error) {
	return s.Repo.ListAppointments()
}

// UpdateAppointmentStatus applies an admin status change and, for confirmed
// or cancelled, hands the appointment to the notifier. Notification is best
// effort: a failed email never rolls back the status.
func (s *BookingService) UpdateAppointmentStatus(id, status string) (*db.Appointment, error) {
	appointmentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrInvalidInput("Invalid appointment id")
	}
	if status != db.StatusPending && status != db.StatusConfirmed && status != db.StatusCancelled {
		return nil, apperrors.ErrInvalidInput(fmt.Sprintf("Invalid status %q", status))
	}

	appointment, err := s.Repo.UpdateAppointmentStatus(appointmentID, status)
	if err != nil {
		return nil, err
	}

	if status == db.StatusConfirmed || status == db.StatusCancelled {
		s.notifier.SendAppointmentStatusEmail(*appointment, status)
	}
	return appointment, nil
}

// computeSlots assembles the day's configuration snapshot and runs the
// pipeline. Configuration is read fresh on every call so booking validation
// never runs against stale admin settings.
func (s *BookingService) computeSlots(date, typeID string) ([]availability.Slot, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, apperrors.ErrInvalidInput("Invalid date, expected YYYY-MM-DD")
	}
	parsedTypeID, err := uuid.Parse(typeID)
	if err != nil {
		return nil, apperrors.ErrInvalidInput("Invalid appointment type")
	}

	appointmentType, err := s.Repo.GetAppointmentType(parsedTypeID)
	if err != nil {
		log.Printf("Error loading appointment type %s: %v", typeID, err)
		return nil, apperrors.ErrInternal()
	}
	if appointmentType == nil || !appointmentType.IsActive {
		return nil, apperrors.ErrInvalidInput("Invalid appointment type")
	}

	sched, err := s.resolveDaySchedule(day, date)
	if err != nil {
		return nil, err
	}

	existing, err := s.Repo.ListAppointmentsForDate(date)
	if err != nil {
		log.Printf("Error loading appointments for %s: %v", date, err)
		return nil, apperrors.ErrInternal()
	}
	busy := make([]availability.TimeRange, 0, len(existing))
	for _, a := range existing {
		start, errStart := availability.ParseClock(day, a.StartTime)
		end, errEnd := availability.ParseClock(day, a.EndTime)
		if errStart != nil || errEnd != nil {
			log.Printf("Skipping appointment %s with unparseable times %q-%q", a.ID, a.StartTime, a.EndTime)
			continue
		}
		busy = append(busy, availability.TimeRange{Start: start, End: end})
	}

	bufferMinutes, err := s.ScheduleRepo.GetBufferMinutes()
	if err != nil {
		log.Printf("Error loading buffer config: %v", err)
		return nil, apperrors.ErrInternal()
	}

	open := availability.ResolveOpenRanges(sched)
	duration := time.Duration(appointmentType.DurationMinutes) * time.Minute
	candidates := availability.GenerateSlots(open, duration, availability.StepInterval)
	return availability.FilterConflicts(candidates, busy, time.Duration(bufferMinutes)*time.Minute), nil
}

func (s *BookingService) resolveDaySchedule(day time.Time, date string) (availability.DaySchedule, error) {
	var sched availability.DaySchedule

	blackout, err := s.ScheduleRepo.IsBlackout(date)
	if err != nil {
		log.Printf("Error checking blackout for %s: %v", date, err)
		return sched, apperrors.ErrInternal()
	}
	sched.Blackout = blackout
	if blackout {
		return sched, nil
	}

	override, err := s.ScheduleRepo.GetOverride(date)
	if err != nil {
		log.Printf("Error loading override for %s: %v", date, err)
		return sched, apperrors.ErrInternal()
	}
	if override != nil {
		sched.Override = overrideWindows(day, override)
		return sched, nil
	}

	rule, err := s.ScheduleRepo.GetWeeklyRule(int(day.Weekday()))
	if err != nil {
		log.Printf("Error loading weekly rule for %s: %v", date, err)
		return sched, apperrors.ErrInternal()
	}
	if rule != nil {
		start, errStart := availability.ParseClock(day, rule.StartTime)
		end, errEnd := availability.ParseClock(day, rule.EndTime)
		if errStart != nil || errEnd != nil {
			log.Printf("Weekly rule for day %d has unparseable times %q-%q", rule.DayOfWeek, rule.StartTime, rule.EndTime)
			return sched, nil
		}
		sched.Weekly = &availability.TimeRange{Start: start, End: end}
	}
	return sched, nil
}

// overrideWindows turns an override row into resolver input. The multi-window
// time_slots form wins when present, else the single start/end pair.
func overrideWindows(day time.Time, o *db.AvailabilityOverride) *availability.OverrideWindows {
	out := &availability.OverrideWindows{Available: o.IsAvailable}
	if !o.IsAvailable {
		return out
	}

	windows := o.TimeSlots
	if len(windows) == 0 {
		windows = db.TimeWindows{{Start: o.StartTime, End: o.EndTime}}
	}
	for _, w := range windows {
		start, errStart := availability.ParseClock(day, w.Start)
		end, errEnd := availability.ParseClock(day, w.End)
		if errStart != nil || errEnd != nil {
			log.Printf("Override for %s has unparseable window %q-%q", o.Date, w.Start, w.End)
			continue
		}
		out.Windows = append(out.Windows, availability.TimeRange{Start: start, End: end})
	}
	return out
}
