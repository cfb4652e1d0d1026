package entities

// BookingRequest is the public booking submission.
type BookingRequest struct {
	TypeID    string `json:"type_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
