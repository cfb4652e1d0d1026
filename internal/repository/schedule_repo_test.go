package repository_test

import (
	"regexp"
	"testing"

	"olivebooking/internal/db"
	"olivebooking/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduleRepo(t *testing.T) (*repository.ScheduleRepository, sqlmock.Sqlmock) {
	t.Helper()
	database, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return repository.NewScheduleRepository(database), dbMock
}

func TestScheduleRepo_GetWeeklyRule(t *testing.T) {
	repo, dbMock := setupScheduleRepo(t)

	query := `SELECT id, day_of_week, start_time, end_time, is_active FROM availability_settings WHERE day_of_week = $1 AND is_active = true`
	dbMock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "is_active"}).
			AddRow(7, 1, "09:00:00", "17:00:00", true))

	rule, err := repo.GetWeeklyRule(1)
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, "09:00:00", rule.StartTime)
	assert.Equal(t, "17:00:00", rule.EndTime)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestScheduleRepo_GetWeeklyRule_NoActiveRule(t *testing.T) {
	repo, dbMock := setupScheduleRepo(t)

	dbMock.ExpectQuery("SELECT id, day_of_week").
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "is_active"}))

	rule, err := repo.GetWeeklyRule(0)
	require.NoError(t, err)
	assert.Nil(t, rule)
}

func TestScheduleRepo_GetOverride_ScansTimeSlots(t *testing.T) {
	repo, dbMock := setupScheduleRepo(t)

	dbMock.ExpectQuery("SELECT id, override_date").
		WithArgs("2025-06-02").
		WillReturnRows(sqlmock.NewRows([]string{"id", "override_date", "start_time", "end_time", "is_available", "time_slots"}).
			AddRow(3, "2025-06-02", "09:00:00", "17:00:00", true,
				[]byte(`[{"start":"10:00:00","end":"12:00:00"},{"start":"14:00:00","end":"16:00:00"}]`)))

	override, err := repo.GetOverride("2025-06-02")
	require.NoError(t, err)
	require.NotNil(t, override)
	require.Len(t, override.TimeSlots, 2)
	assert.Equal(t, "10:00:00", override.TimeSlots[0].Start)
	assert.Equal(t, "16:00:00", override.TimeSlots[1].End)
}

func TestScheduleRepo_UpsertWeeklyRule(t *testing.T) {
	repo, dbMock := setupScheduleRepo(t)

	dbMock.ExpectExec("INSERT INTO availability_settings").
		WithArgs(2, "10:00:00", "18:00:00", true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpsertWeeklyRule(db.AvailabilitySetting{
		DayOfWeek: 2, StartTime: "10:00:00", EndTime: "18:00:00", IsActive: true,
	})
	require.NoError(t, err)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestScheduleRepo_IsBlackout(t *testing.T) {
	repo, dbMock := setupScheduleRepo(t)

	dbMock.ExpectQuery("SELECT EXISTS").
		WithArgs("2025-12-25").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	blackout, err := repo.IsBlackout("2025-12-25")
	require.NoError(t, err)
	assert.True(t, blackout)
}

func TestScheduleRepo_GetBufferMinutes_DefaultsWhenUnset(t *testing.T) {
	repo, dbMock := setupScheduleRepo(t)

	dbMock.ExpectQuery("SELECT value FROM booking_configs").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	minutes, err := repo.GetBufferMinutes()
	require.NoError(t, err)
	assert.Equal(t, 15, minutes)
}

func TestScheduleRepo_GetBufferMinutes_IgnoresGarbageValue(t *testing.T) {
	repo, dbMock := setupScheduleRepo(t)

	dbMock.ExpectQuery("SELECT value FROM booking_configs").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("soon"))

	minutes, err := repo.GetBufferMinutes()
	require.NoError(t, err)
	assert.Equal(t, 15, minutes)
}
