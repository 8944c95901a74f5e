// main.go
package main

import (
	"log"
	"os"
	"time"

	"paceline/database"
	"paceline/handlers"
	"paceline/middleware"
	"paceline/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Wire the milestone engine: durable store + outward event sink
	services.InitEventService(database.GetDB())
	services.InitMilestoneEngine(database.NewKVStore(database.GetDB()), services.GetEventService())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetCurrentUser)
	userGroup.Get("/stats", handlers.GetUserStats)

	// Workout routes
	workoutGroup := api.Group("/workouts")
	workoutGroup.Use(middleware.AuthMiddleware)
	workoutGroup.Post("/", handlers.RecordWorkout)
	workoutGroup.Get("/", handlers.GetWorkoutHistory)
	workoutGroup.Post("/win", handlers.ReportWin)

	// Friend routes
	friendGroup := api.Group("/friends")
	friendGroup.Use(middleware.AuthMiddleware)
	friendGroup.Get("/", handlers.GetFriends)
	friendGroup.Post("/request", handlers.SendFriendRequest)
	friendGroup.Post("/accept", handlers.AcceptFriendRequest)
	friendGroup.Get("/requests", handlers.GetFriendRequests)

	// Group routes
	groupGroup := api.Group("/groups")
	groupGroup.Use(middleware.AuthMiddleware)
	groupGroup.Get("/", handlers.GetGroups)
	groupGroup.Post("/", handlers.CreateGroup)
	groupGroup.Post("/:id/join", handlers.JoinGroup)
	groupGroup.Post("/:id/leave", handlers.LeaveGroup)

	// Milestone routes
	milestoneGroup := api.Group("/milestones")
	milestoneGroup.Use(middleware.AuthMiddleware)
	milestoneGroup.Get("/", handlers.GetMilestones)
	milestoneGroup.Get("/achieved", handlers.GetAchievedMilestones)
	milestoneGroup.Post("/evaluate", handlers.EvaluateSnapshot)
	milestoneGroup.Get("/:id/status", handlers.GetMilestoneStatus)
	milestoneGroup.Post("/:id/grant", handlers.GrantMilestone)
	milestoneGroup.Delete("/", handlers.ResetAchievements)

	// Event routes
	eventGroup := api.Group("/events")
	eventGroup.Use(middleware.AuthMiddleware)
	eventGroup.Get("/", handlers.GetRecentEvents)

	// Live achievement stream
	app.Use("/ws/events", handlers.WebSocketUpgrade)
	app.Get("/ws/events", middleware.WebSocketAuthMiddleware, handlers.EventStream)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
