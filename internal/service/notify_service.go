package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"time"

	"olivebooking/internal/db"
	"olivebooking/internal/entities"
)

const statusEmailTemplate = `
<div style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px;">
  {{if eq .Status "confirmed"}}<h2 style="color: #2e7d32;">Appointment Confirmed</h2>{{else}}<h2 style="color: #c62828;">Appointment Update</h2>{{end}}
  <p>Dear {{.CustomerName}},</p>
  {{if eq .Status "confirmed"}}<p>Your appointment has been successfully confirmed.</p>{{else}}<p>We regret to inform you that your appointment request has been declined/cancelled.</p>{{end}}
  <div style="background-color: #f9f9f9; padding: 15px; border-radius: 8px; border: 1px solid #eee;">
    <p style="margin: 0;"><strong>Service:</strong> {{.ServiceName}}</p>
    <p style="margin: 5px 0 0 0;"><strong>Date:</strong> {{.DateFormatted}}</p>
    <p style="margin: 5px 0 0 0;"><strong>Time:</strong> {{.TimeFormatted}}</p>
  </div>
  {{if eq .Status "confirmed"}}<p>We look forward to seeing you.</p>{{else}}<p>Please contact us if you have any questions or would like to reschedule.</p>{{end}}
  <hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;" />
  <p style="font-size: 12px; color: #777;">Best regards,<br/><strong>Olive of Wholeness</strong></p>
</div>`

const reminderEmailTemplate = `
<div style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px;">
  <h2 style="color: #2e7d32;">Appointment Reminder</h2>
  <p>Dear {{.CustomerName}},</p>
  <p>This is a friendly reminder of your upcoming appointment.</p>
  <div style="background-color: #f9f9f9; padding: 15px; border-radius: 8px; border: 1px solid #eee;">
    <p style="margin: 0;"><strong>Service:</strong> {{.ServiceName}}</p>
    <p style="margin: 5px 0 0 0;"><strong>Date:</strong> {{.DateFormatted}}</p>
    <p style="margin: 5px 0 0 0;"><strong>Time:</strong> {{.TimeFormatted}}</p>
  </div>
  <p>We look forward to seeing you.</p>
  <hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;" />
  <p style="font-size: 12px; color: #777;">Best regards,<br/><strong>Olive of Wholeness</strong></p>
</div>`

var (
	statusTmpl   = template.Must(template.New("status").Parse(statusEmailTemplate))
	reminderTmpl = template.Must(template.New("reminder").Parse(reminderEmailTemplate))
)

// NotifyService owns every outbound customer and owner notification. All
// sends are asynchronous and best effort: failures are logged and never reach
// the caller.
type NotifyService struct {
}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

// SendAppointmentStatusEmail tells the customer their appointment was
// confirmed or declined.
func (s *NotifyService) SendAppointmentStatusEmail(appointment db.Appointment, status string) {
	data, err := emailData(appointment, status)
	if err != nil {
		log.Printf("Cannot build status email for appointment %s: %v", appointment.ID, err)
		return
	}

	var subject, plainText string
	if status == db.StatusConfirmed {
		subject = "Appointment Confirmed - Olive of Wholeness"
		plainText = fmt.Sprintf(
			"Dear %s,\n\nYour appointment has been successfully confirmed.\n\n"+
				"Details:\n- Service: %s\n- Date: %s\n- Time: %s\n\n"+
				"We look forward to seeing you.\n\nBest regards,\nOlive of Wholeness",
			data.CustomerName, data.ServiceName, data.DateFormatted, data.TimeFormatted,
		)
	} else {
		subject = "Appointment Update - Olive of Wholeness"
		plainText = fmt.Sprintf(
			"Dear %s,\n\nWe regret to inform you that your appointment request has been declined/cancelled.\n\n"+
				"Details:\n- Service: %s\n- Date: %s\n- Time: %s\n\n"+
				"Please contact us if you have any questions or would like to reschedule.\n\nBest regards,\nOlive of Wholeness",
			data.CustomerName, data.ServiceName, data.DateFormatted, data.TimeFormatted,
		)
	}

	s.sendEmailAsync(appointment, statusTmpl, data, subject, plainText)
}

// SendAppointmentReminderEmail is sent by the daily job the day before a
// confirmed appointment.
func (s *NotifyService) SendAppointmentReminderEmail(appointment db.Appointment) {
	data, err := emailData(appointment, appointment.Status)
	if err != nil {
		log.Printf("Cannot build reminder email for appointment %s: %v", appointment.ID, err)
		return
	}

	subject := "Appointment Reminder - Olive of Wholeness"
	plainText := fmt.Sprintf(
		"Dear %s,\n\nThis is a friendly reminder of your upcoming appointment.\n\n"+
			"Details:\n- Service: %s\n- Date: %s\n- Time: %s\n\n"+
			"We look forward to seeing you.\n\nBest regards,\nOlive of Wholeness",
		data.CustomerName, data.ServiceName, data.DateFormatted, data.TimeFormatted,
	)

	s.sendEmailAsync(appointment, reminderTmpl, data, subject, plainText)
}

// SendNewBookingSMS pings the practice owner when a booking request lands.
func (s *NotifyService) SendNewBookingSMS(appointment db.Appointment) {
	ownerPhone := os.Getenv("ADMIN_ALERT_PHONE")
	if ownerPhone == "" {
		return
	}

	message := fmt.Sprintf("Olive of Wholeness: new booking request from %s on %s at %s.",
		appointment.CustomerName, appointment.Date, appointment.StartTime)

	go func() {
		if err := SendSMS(ownerPhone, message); err != nil {
			log.Printf("Owner SMS for appointment %s failed: %v", appointment.ID, err)
		}
	}()
}

func (s *NotifyService) sendEmailAsync(appointment db.Appointment, tmpl *template.Template, data entities.AppointmentEmailData, subject, plainText string) {
	var htmlBody bytes.Buffer
	if err := tmpl.Execute(&htmlBody, data); err != nil {
		log.Printf("Error rendering email template for appointment %s: %v", appointment.ID, err)
	}

	go func(toEmail, toName, subject, plain, html string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, plain, html); err != nil {
			log.Printf("Email for appointment %s failed: %v", appointment.ID, err)
		}
	}(appointment.CustomerEmail, appointment.CustomerName, subject, plainText, htmlBody.String())
}

func emailData(appointment db.Appointment, status string) (entities.AppointmentEmailData, error) {
	date, err := time.Parse("2006-01-02", appointment.Date)
	if err != nil {
		return entities.AppointmentEmailData{}, fmt.Errorf("invalid appointment date %q: %w", appointment.Date, err)
	}
	startTime, err := time.Parse("15:04:05", appointment.StartTime)
	if err != nil {
		return entities.AppointmentEmailData{}, fmt.Errorf("invalid appointment time %q: %w", appointment.StartTime, err)
	}
	return entities.AppointmentEmailData{
		CustomerName:  appointment.CustomerName,
		ServiceName:   appointment.TypeName,
		DateFormatted: date.Format("January 2, 2006"),
		TimeFormatted: startTime.Format("15:04"),
		Status:        status,
	}, nil
}
