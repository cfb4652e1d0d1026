package service

import (
	"fmt"
	"log"
	"time"

	"olivebooking/internal/repository"
)

type JobService struct {
	Repo     *repository.JobRepository
	notifier *NotifyService
}

func NewJobService(repo *repository.JobRepository, notifier *NotifyService) *JobService {
	return &JobService{Repo: repo, notifier: notifier}
}

// SendUpcomingReminders emails every customer with a confirmed appointment
// tomorrow. Run once a day by cron.
func (s *JobService) SendUpcomingReminders() error {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	log.Printf("Cron Job: Sending reminders for appointments on %s...", tomorrow)

	appointments, err := s.Repo.GetConfirmedAppointmentsForDate(tomorrow)
	if err != nil {
		return fmt.Errorf("cron job: failed to load confirmed appointments for %s: %w", tomorrow, err)
	}

	if len(appointments) == 0 {
		log.Println("Cron Job: No confirmed appointments tomorrow.")
		return nil
	}

	for _, appointment := range appointments {
		s.notifier.SendAppointmentReminderEmail(appointment)
	}
	log.Printf("Cron Job: Queued %d reminder emails.", len(appointments))
	return nil
}
