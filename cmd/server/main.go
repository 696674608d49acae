package main

import (
	"os"

	"github.com/MForbesPrim/primith-portal/internal/api/routes"
	"github.com/MForbesPrim/primith-portal/internal/config"
	"github.com/MForbesPrim/primith-portal/internal/database"
	"github.com/MForbesPrim/primith-portal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	// Initialize logger
	logger.Init()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database: ", err)
	}

	// Set gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Setup routes
	routes.SetupRoutes(router, db, cfg)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("Starting server on port ", port)
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server: ", err)
	}
}
