package api

type UpdateAppointmentStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type AddBlackoutRequest struct {
	Date string `json:"date"`
}

type BufferConfigResponse struct {
	BufferMinutes int `json:"buffer_minutes"`
}
