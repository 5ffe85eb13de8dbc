package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"

	"github.com/MAAF1/Task-System/config"
	"github.com/MAAF1/Task-System/handlers"
	"github.com/MAAF1/Task-System/logging"
	"github.com/MAAF1/Task-System/middleware"
	"github.com/MAAF1/Task-System/models"
	"github.com/MAAF1/Task-System/repositories"
	"github.com/MAAF1/Task-System/services"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		// Running without a .env file is fine in containers; the
		// environment is expected to be set there.
		fmt.Println("No .env file found, using process environment")
	}

	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Task Management Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := repositories.Connect(ctx, cfg.DB.DSN())
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection failed: %v", err)
	}
	defer db.Close()
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to PostgreSQL at %s:%s.", cfg.DB.Host, cfg.DB.Port)

	if err := repositories.EnsureSchema(ctx, db); err != nil {
		logging.Logger.Fatalf("Event ID: DB_SCHEMA_FAILED, Description: Schema setup failed: %v", err)
	}

	taskRepo := repositories.NewTaskRepository(db)
	userRepo := repositories.NewUserRepository(db)

	reportBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ReportQueryCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	taskService := services.NewTaskService(taskRepo, userRepo)
	queryService := services.NewQueryService(taskRepo, reportBreaker)
	userService := services.NewUserService(userRepo)

	if err := userService.SeedDefaults(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: SEED_FAILED, Description: Seeding default accounts failed: %v", err)
	}

	taskHandler := handlers.NewTaskHandler(taskService, queryService)
	assignmentHandler := handlers.NewAssignmentHandler(taskService, queryService)
	userHandler := handlers.NewUserHandler(userService)
	loginHandler := handlers.NewLoginHandler(userService)

	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	r.Handle("/metrics", middleware.MetricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/register", loginHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", loginHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	manageTasks := middleware.RequirePermission(models.PermManageTasks)
	deleteTasks := middleware.RequirePermission(models.PermDeleteTasks)
	manageUsers := middleware.RequirePermission(models.PermManageUsers)
	ownTasks := middleware.RequirePermission(models.PermViewOwnAssignments)

	api.Handle("/tasks", manageTasks(http.HandlerFunc(taskHandler.CreateTask))).Methods(http.MethodPost)
	api.Handle("/tasks", manageTasks(http.HandlerFunc(taskHandler.GetAllTasks))).Methods(http.MethodGet)
	api.Handle("/tasks/search", manageTasks(http.HandlerFunc(taskHandler.SearchTasks))).Methods(http.MethodGet)
	api.Handle("/tasks/details", manageTasks(http.HandlerFunc(taskHandler.TaskDetails))).Methods(http.MethodGet)
	api.Handle("/tasks/getbyid/{id}", manageTasks(http.HandlerFunc(taskHandler.GetTaskByID))).Methods(http.MethodGet)
	api.Handle("/tasks/{id}", manageTasks(http.HandlerFunc(taskHandler.UpdateTask))).Methods(http.MethodPut)
	api.Handle("/tasks/{id}", deleteTasks(http.HandlerFunc(taskHandler.DeleteTask))).Methods(http.MethodDelete)

	api.Handle("/taskassignments/{taskId}/assign", manageTasks(http.HandlerFunc(assignmentHandler.AssignUsers))).Methods(http.MethodPost)
	api.Handle("/taskassignments/{taskId}/users", manageTasks(http.HandlerFunc(assignmentHandler.RemoveUsers))).Methods(http.MethodDelete)

	api.Handle("/usertasks/my", ownTasks(http.HandlerFunc(assignmentHandler.MyTasks))).Methods(http.MethodGet)
	api.Handle("/usertasks/{taskId}/complete", ownTasks(http.HandlerFunc(assignmentHandler.CompleteTask))).Methods(http.MethodPost)
	api.Handle("/usertasks/{taskId}/feedback", ownTasks(http.HandlerFunc(assignmentHandler.UpdateFeedback))).Methods(http.MethodPut)

	api.Handle("/users", manageUsers(http.HandlerFunc(userHandler.GetAllUsers))).Methods(http.MethodGet)
	api.Handle("/users/search", manageUsers(http.HandlerFunc(userHandler.SearchUsers))).Methods(http.MethodGet)
	api.Handle("/users/{id}", manageUsers(http.HandlerFunc(userHandler.DeleteUser))).Methods(http.MethodDelete)

	corsRouter := middleware.EnableCORS(r)

	serverAddress := fmt.Sprintf(":%s", cfg.ServerPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
