package entities

// AppointmentEmailData feeds the status and reminder email templates.
type AppointmentEmailData struct {
	CustomerName  string
	ServiceName   string
	DateFormatted string
	TimeFormatted string
	Status        string
}
