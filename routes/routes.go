package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizmaster/handlers"
	"quizmaster/middleware"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	questionHandler *handlers.QuestionHandler,
	jwtSecret string,
) {
	// Auth routes (public)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		quizzes := protected.Group("/quizzes")
		{
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.GET("", quizHandler.GetQuizzes)
			quizzes.GET("/:id", quizHandler.GetQuizDetails)
			quizzes.PATCH("/:id/title", quizHandler.UpdateTitle)
			quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
		}

		questions := protected.Group("/questions")
		{
			questions.PUT("/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
