package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"quizmaster/config"
	"quizmaster/generator"
	"quizmaster/handlers"
	"quizmaster/logger"
	"quizmaster/middleware"
	"quizmaster/models"
	"quizmaster/repository"
	"quizmaster/routes"
	"quizmaster/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer appLog.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
	)
	if err != nil {
		appLog.Fatal("failed to migrate database", "error", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	quizRepo := repository.NewQuizRepository(db)
	generatorClient := generator.NewOpenAIClient(cfg, appLog)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(quizRepo, generatorClient, redisClient, appLog)
	questionService := services.NewQuestionService(quizRepo, redisClient, appLog)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	questionHandler := handlers.NewQuestionHandler(questionService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, questionHandler, cfg.JWTSecret)

	// Start server
	appLog.Info("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		appLog.Fatal("failed to start server", "error", err)
	}
}
