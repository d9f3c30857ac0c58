package routes

import (
	"schoolrec/internal/adapters/http/handlers"
	"schoolrec/internal/adapters/http/middleware"
	"schoolrec/internal/adapters/persistence/repositories"
	"schoolrec/internal/config"
	"schoolrec/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application.
// The OTP service arrives pre-built so its challenge store can be either
// the in-process map or the shared Redis one.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, otpService *services.OTPService) {
	// Initialize repositories
	teacherRepo := repositories.NewTeacherRepository(db)
	studentRepo := repositories.NewStudentRepository(db)

	// Initialize services
	authService := services.NewAuthService(teacherRepo, studentRepo, otpService, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	authRoutes := app.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes - login at 5 req/min/IP, OTP at 3 req/min/IP
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/send-otp", middleware.StrictRateLimiter(), handler.SendOTP)
	router.Post("/verify-otp", middleware.StrictRateLimiter(), handler.VerifyOTP)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}
