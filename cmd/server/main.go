package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"olivebooking/internal/api"
	"olivebooking/internal/auth"
	"olivebooking/internal/repository"
	"olivebooking/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	appointmentRepo := repository.NewAppointmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	jobRepo := repository.NewJobRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)

	notifier := service.NewNotifyService()
	bookingSvc := service.NewBookingService(appointmentRepo, scheduleRepo, notifier)
	scheduleSvc := service.NewScheduleService(scheduleRepo, appointmentRepo)
	jobSvc := service.NewJobService(jobRepo, notifier)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)

	bookingHandler := api.NewBookingHandler(bookingSvc)
	adminHandler := api.NewAdminHandler(bookingSvc, scheduleSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/availability", bookingHandler.GetAvailability).Methods("GET")
	r.HandleFunc("/api/appointment-types", bookingHandler.ListAppointmentTypes).Methods("GET")
	r.HandleFunc("/api/bookings", bookingHandler.CreateBooking).Methods("POST")

	// Admin auth
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")
	r.HandleFunc("/admin/register", adminAuthHandler.CreateAdminUser).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/appointments", adminHandler.ListAppointments).Methods("GET")
	admin.HandleFunc("/appointments", adminHandler.UpdateAppointmentStatus).Methods("PATCH")
	admin.HandleFunc("/schedule", adminHandler.ListWeeklySchedule).Methods("GET")
	admin.HandleFunc("/schedule", adminHandler.UpsertWeeklySchedule).Methods("PUT")
	admin.HandleFunc("/overrides", adminHandler.ListOverrides).Methods("GET")
	admin.HandleFunc("/overrides", adminHandler.UpsertOverride).Methods("POST")
	admin.HandleFunc("/overrides/{id}", adminHandler.DeleteOverride).Methods("DELETE")
	admin.HandleFunc("/blackouts", adminHandler.ListBlackouts).Methods("GET")
	admin.HandleFunc("/blackouts", adminHandler.AddBlackout).Methods("POST")
	admin.HandleFunc("/blackouts/{id}", adminHandler.RemoveBlackout).Methods("DELETE")
	admin.HandleFunc("/config/buffer", adminHandler.GetBufferConfig).Methods("GET")
	admin.HandleFunc("/config/buffer", adminHandler.UpdateBufferConfig).Methods("PUT")
	admin.HandleFunc("/appointment-types", adminHandler.ListAppointmentTypes).Methods("GET")
	admin.HandleFunc("/appointment-types", adminHandler.CreateAppointmentType).Methods("POST")
	admin.HandleFunc("/appointment-types/{id}", adminHandler.UpdateAppointmentType).Methods("PUT")

	// Daily reminder emails for tomorrow's confirmed appointments.
	c := cron.New()
	if _, err := c.AddFunc("0 8 * * *", func() {
		if err := jobSvc.SendUpcomingReminders(); err != nil {
			log.Printf("Reminder job failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, corsHandler)))
}
