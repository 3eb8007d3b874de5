package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderpranjal09/cystas-devsoft-Ems/handlers"
	"github.com/coderpranjal09/cystas-devsoft-Ems/logging"
	"github.com/coderpranjal09/cystas-devsoft-Ems/middleware"
	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/services"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ensureIndexes creates the unique keys the write paths rely on: one
// attendance row per user per day and one account per email.
func ensureIndexes(ctx context.Context, users, attendances *mongo.Collection) error {
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = attendances.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting EMS Server...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded, relying on process environment: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "ems"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB, using database %s.", mongoDBName)

	db := client.Database(mongoDBName)
	usersCollection := db.Collection("users")
	projectsCollection := db.Collection("projects")
	tasksCollection := db.Collection("tasks")
	leavesCollection := db.Collection("leaves")
	attendancesCollection := db.Collection("attendances")

	if err := ensureIndexes(ctx, usersCollection, attendancesCollection); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to create indexes: %v", err)
	}

	notifier := services.NewNotifier(usersCollection)

	authService := services.NewAuthService(usersCollection)
	userService := services.NewUserService(usersCollection)
	projectService := services.NewProjectService(projectsCollection, usersCollection)
	taskService := services.NewTaskService(tasksCollection, usersCollection)
	leaveService := services.NewLeaveService(leavesCollection, usersCollection)
	attendanceService := services.NewAttendanceService(attendancesCollection)
	dashboardService := services.NewDashboardService(usersCollection, projectsCollection, tasksCollection, leavesCollection, attendancesCollection)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService, notifier)
	leaveHandler := handlers.NewLeaveHandler(leaveService, notifier)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	auth := middleware.NewAuthMiddleware(usersCollection)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		utils.RespondError(w, utils.NewNotFoundError(fmt.Sprintf("Can't find %s on this server", req.URL.Path)))
	})

	// Public authentication routes.
	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	// Session routes for any authenticated user.
	meRouter := r.PathPrefix("/api/auth").Subrouter()
	meRouter.Use(auth.JWTAuth)
	meRouter.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)
	meRouter.HandleFunc("/password", authHandler.UpdatePassword).Methods(http.MethodPatch)

	// Admin portal.
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.JWTAuth, middleware.RequireRole(models.RoleAdmin))

	admin.HandleFunc("/dashboard", dashboardHandler.AdminDashboard).Methods(http.MethodGet)

	admin.HandleFunc("/users", userHandler.GetAllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", userHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", userHandler.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", userHandler.UpdateUser).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id}", userHandler.DeleteUser).Methods(http.MethodDelete)

	admin.HandleFunc("/projects", projectHandler.GetAllProjects).Methods(http.MethodGet)
	admin.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	admin.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	admin.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPatch)
	admin.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)
	admin.HandleFunc("/projects/{id}/team", projectHandler.GetProjectTeam).Methods(http.MethodGet)

	admin.HandleFunc("/tasks", taskHandler.GetAllTasks).Methods(http.MethodGet)
	admin.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	admin.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	admin.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPatch)
	admin.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	admin.HandleFunc("/tasks/{id}/evaluate", taskHandler.EvaluateTask).Methods(http.MethodPost)

	admin.HandleFunc("/leaves", leaveHandler.ListLeaves).Methods(http.MethodGet)
	admin.HandleFunc("/leaves/stats", leaveHandler.LeaveStats).Methods(http.MethodGet)
	admin.HandleFunc("/leaves/{id}", leaveHandler.GetLeave).Methods(http.MethodGet)
	admin.HandleFunc("/leaves/{id}/decide", leaveHandler.DecideLeave).Methods(http.MethodPatch)

	admin.HandleFunc("/attendance", attendanceHandler.GetAllAttendance).Methods(http.MethodGet)
	admin.HandleFunc("/attendance", attendanceHandler.MarkAttendance).Methods(http.MethodPost)
	admin.HandleFunc("/attendance/batch", attendanceHandler.MarkAttendanceBatch).Methods(http.MethodPost)
	admin.HandleFunc("/attendance/user/{userId}", attendanceHandler.GetUserAttendance).Methods(http.MethodGet)
	admin.HandleFunc("/attendance/{id}", attendanceHandler.GetAttendanceRecord).Methods(http.MethodGet)
	admin.HandleFunc("/attendance/{id}", attendanceHandler.UpdateAttendance).Methods(http.MethodPatch)
	admin.HandleFunc("/attendance/{id}", attendanceHandler.DeleteAttendance).Methods(http.MethodDelete)

	// Employee portal.
	employee := r.PathPrefix("/api/client").Subrouter()
	employee.Use(auth.JWTAuth, middleware.RequireRole(models.RoleClient))

	employee.HandleFunc("/dashboard", dashboardHandler.ClientDashboard).Methods(http.MethodGet)

	employee.HandleFunc("/projects", projectHandler.GetMyProjects).Methods(http.MethodGet)
	employee.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	employee.HandleFunc("/projects/{id}/team", projectHandler.GetProjectTeam).Methods(http.MethodGet)

	employee.HandleFunc("/tasks", taskHandler.GetMyTasks).Methods(http.MethodGet)
	employee.HandleFunc("/tasks/{id}/submit", taskHandler.SubmitTask).Methods(http.MethodPost)

	employee.HandleFunc("/leaves", leaveHandler.GetMyLeaves).Methods(http.MethodGet)
	employee.HandleFunc("/leaves", leaveHandler.ApplyForLeave).Methods(http.MethodPost)
	employee.HandleFunc("/leaves/{id}", leaveHandler.CancelLeave).Methods(http.MethodDelete)

	employee.HandleFunc("/attendance", attendanceHandler.GetMyAttendance).Methods(http.MethodGet)

	// Self-service routes shared by both roles; admins are employees too.
	self := r.PathPrefix("/api/employee").Subrouter()
	self.Use(auth.JWTAuth, middleware.RequireRole(models.RoleClient, models.RoleAdmin))

	self.HandleFunc("/tasks", taskHandler.GetMyTasks).Methods(http.MethodGet)
	self.HandleFunc("/tasks/{id}/submit", taskHandler.SubmitTask).Methods(http.MethodPost)
	self.HandleFunc("/leaves", leaveHandler.GetMyLeaves).Methods(http.MethodGet)
	self.HandleFunc("/leaves", leaveHandler.ApplyForLeave).Methods(http.MethodPost)
	self.HandleFunc("/leaves/{id}", leaveHandler.CancelLeave).Methods(http.MethodDelete)
	self.HandleFunc("/attendance", attendanceHandler.GetMyAttendance).Methods(http.MethodGet)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "5000"
	}

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      corsRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", serverPort)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
