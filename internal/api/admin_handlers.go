package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"olivebooking/internal/db"
	"olivebooking/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Bookings *service.BookingService
	Schedule *service.ScheduleService
}

func NewAdminHandler(bookings *service.BookingService, schedule *service.ScheduleService) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Schedule: schedule}
}

func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.Bookings.ListAppointments()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

// UpdateAppointmentStatus handles PATCH /admin/appointments. Confirmation or
// cancellation triggers the customer notification as a side effect.
func (h *AdminHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.ID == "" || req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing id or status"})
		return
	}

	appointment, err := h.Bookings.UpdateAppointmentStatus(req.ID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func (h *AdminHandler) ListWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Schedule.ListWeeklyRules()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (h *AdminHandler) UpsertWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	var rule db.AvailabilitySetting
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.Schedule.UpsertWeeklyRule(rule); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Schedule updated"})
}

func (h *AdminHandler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Schedule.ListOverrides()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overrides)
}

func (h *AdminHandler) UpsertOverride(w http.ResponseWriter, r *http.Request) {
	var override db.AvailabilityOverride
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if override.Date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Date required"})
		return
	}
	if err := h.Schedule.UpsertOverride(override); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Override saved"})
}

func (h *AdminHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
		return
	}
	if err := h.Schedule.DeleteOverride(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Override deleted"})
}

func (h *AdminHandler) ListBlackouts(w http.ResponseWriter, r *http.Request) {
	blackouts, err := h.Schedule.ListBlackouts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blackouts)
}

func (h *AdminHandler) AddBlackout(w http.ResponseWriter, r *http.Request) {
	var req AddBlackoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.Date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Date required"})
		return
	}
	if err := h.Schedule.AddBlackout(req.Date); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blackout added"})
}

func (h *AdminHandler) RemoveBlackout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
		return
	}
	if err := h.Schedule.RemoveBlackout(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blackout removed"})
}

func (h *AdminHandler) GetBufferConfig(w http.ResponseWriter, r *http.Request) {
	minutes, err := h.Schedule.GetBufferMinutes()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BufferConfigResponse{BufferMinutes: minutes})
}

func (h *AdminHandler) UpdateBufferConfig(w http.ResponseWriter, r *http.Request) {
	var req BufferConfigResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.Schedule.SetBufferMinutes(req.BufferMinutes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Buffer updated"})
}

func (h *AdminHandler) ListAppointmentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Schedule.ListAppointmentTypes()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *AdminHandler) CreateAppointmentType(w http.ResponseWriter, r *http.Request) {
	var t db.AppointmentType
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.Schedule.CreateAppointmentType(&t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *AdminHandler) UpdateAppointmentType(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
		return
	}
	var t db.AppointmentType
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	t.ID = id
	if err := h.Schedule.UpdateAppointmentType(&t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
