package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"schoolrec/internal/adapters/cache"
	"schoolrec/internal/adapters/http/middleware"
	"schoolrec/internal/adapters/http/routes"
	"schoolrec/internal/adapters/persistence/models"
	"schoolrec/internal/config"
	"schoolrec/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "schoolrec/docs" // Swagger docs
)

// @title schoolrec API
// @version 1.0
// @description School record-management API - authentication service

// @contact.name API Support

// @BasePath /
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load configuration (fails fast when JWT_SECRET is missing)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed default admin account
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Challenge store: shared Redis when configured, in-process otherwise
	var store services.ChallengeStore
	if cfg.Redis.Addr != "" {
		redisClient, err := config.ConnectRedis(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		store = cache.NewRedisChallengeStore(redisClient)
	} else {
		store = cache.NewMemoryChallengeStore()
	}

	mailer := services.NewMailerService(cfg.SMTP)
	otpService := services.NewOTPService(store, mailer)

	// Start cron service for expired challenge sweeps
	cronService := services.NewCronService(otpService)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "schoolrec API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, cfg and the OTP service for dependency injection)
	routes.Setup(app, db, cfg, otpService)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
