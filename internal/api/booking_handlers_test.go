package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"olivebooking/internal/api"
	"olivebooking/internal/entities"
	"olivebooking/internal/repository"
	"olivebooking/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, sqlmock.Sqlmock) {
	t.Helper()
	database, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	appointmentRepo := repository.NewAppointmentRepository(database)
	scheduleRepo := repository.NewScheduleRepository(database)
	bookingSvc := service.NewBookingService(appointmentRepo, scheduleRepo, service.NewNotifyService())
	scheduleSvc := service.NewScheduleService(scheduleRepo, appointmentRepo)

	bookingHandler := api.NewBookingHandler(bookingSvc)
	adminHandler := api.NewAdminHandler(bookingSvc, scheduleSvc)

	r := mux.NewRouter()
	r.HandleFunc("/api/availability", bookingHandler.GetAvailability).Methods("GET")
	r.HandleFunc("/api/appointment-types", bookingHandler.ListAppointmentTypes).Methods("GET")
	r.HandleFunc("/api/bookings", bookingHandler.CreateBooking).Methods("POST")
	r.HandleFunc("/admin/appointments", adminHandler.UpdateAppointmentStatus).Methods("PATCH")
	return r, dbMock
}

func expectAvailabilityReads(dbMock sqlmock.Sqlmock, typeID uuid.UUID, date string) {
	dbMock.ExpectQuery("SELECT id, name, duration_minutes, is_active FROM appointment_types").
		WithArgs(typeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "duration_minutes", "is_active"}).
			AddRow(typeID, "Individual Counseling", 60, true))
	dbMock.ExpectQuery("SELECT EXISTS").
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	dbMock.ExpectQuery("SELECT id, override_date").
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows([]string{"id", "override_date", "start_time", "end_time", "is_available", "time_slots"}))
	dbMock.ExpectQuery("SELECT id, day_of_week").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "is_active"}).
			AddRow(1, 1, "09:00:00", "17:00:00", true))
	dbMock.ExpectQuery("SELECT id, appointment_type_id").
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows([]string{"id", "appointment_type_id", "customer_name", "customer_email", "notes",
			"appointment_date", "start_time", "end_time", "status", "created_at", "updated_at"}))
	dbMock.ExpectQuery("SELECT value FROM booking_configs").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("15"))
}

func TestGetAvailability(t *testing.T) {
	router, dbMock := setupRouter(t)
	typeID := uuid.New()
	expectAvailabilityReads(dbMock, typeID, "2025-06-02")

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2025-06-02&typeId="+typeID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var slots []entities.SlotResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&slots))
	require.Len(t, slots, 15)
	assert.Equal(t, "09:00:00", slots[0].StartTime)
	assert.True(t, slots[0].Available)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestGetAvailability_MissingParams(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2025-06-02", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_InvalidBody(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_Conflict(t *testing.T) {
	router, dbMock := setupRouter(t)
	typeID := uuid.New()

	dbMock.ExpectQuery("SELECT id, name, duration_minutes, is_active FROM appointment_types").
		WithArgs(typeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "duration_minutes", "is_active"}).
			AddRow(typeID, "Individual Counseling", 60, true))
	dbMock.ExpectQuery("SELECT EXISTS").
		WithArgs("2025-06-02").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	dbMock.ExpectQuery("SELECT id, override_date").
		WithArgs("2025-06-02").
		WillReturnRows(sqlmock.NewRows([]string{"id", "override_date", "start_time", "end_time", "is_available", "time_slots"}))
	dbMock.ExpectQuery("SELECT id, day_of_week").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "is_active"}).
			AddRow(1, 1, "09:00:00", "17:00:00", true))
	dbMock.ExpectQuery("SELECT id, appointment_type_id").
		WithArgs("2025-06-02").
		WillReturnRows(sqlmock.NewRows([]string{"id", "appointment_type_id", "customer_name", "customer_email", "notes",
			"appointment_date", "start_time", "end_time", "status", "created_at", "updated_at"}).
			AddRow(uuid.New(), typeID, "Earlier Winner", "other@example.com", "",
				"2025-06-02", "10:00:00", "11:00:00", "pending", time.Now(), time.Now()))
	dbMock.ExpectQuery("SELECT value FROM booking_configs").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("15"))

	body, _ := json.Marshal(entities.BookingRequest{
		TypeID:    typeID.String(),
		Name:      "Grace Adeyemi",
		Email:     "grace@example.com",
		Date:      "2025-06-02",
		StartTime: "10:00:00",
		EndTime:   "11:00:00",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var res map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "This slot is no longer available", res["error"])
}

func TestUpdateAppointmentStatus_MissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPatch, "/admin/appointments", bytes.NewBufferString(`{"id":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
