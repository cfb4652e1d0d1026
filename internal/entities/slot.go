package entities

// SlotResponse is one bookable (or blocked) window for a date, times in
// HH:mm:ss as the booking widget expects.
type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}
