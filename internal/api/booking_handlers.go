package api

import (
	"encoding/json"
	"net/http"

	"olivebooking/internal/entities"
	"olivebooking/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// GetAvailability answers GET /api/availability?date=YYYY-MM-DD&typeId=<id>
// with the day's slots ascending by start time, blocked ones included.
func (h *BookingHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	typeID := r.URL.Query().Get("typeId")
	if date == "" || typeID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing date or typeId"})
		return
	}

	slots, err := h.Service.GetAvailableSlots(date, typeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *BookingHandler) ListAppointmentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.ListAppointmentTypes()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	appointment, err := h.Service.CreateBooking(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appointment)
}
