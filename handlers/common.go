package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quizmaster/apperr"
	"quizmaster/middleware"
)

// currentUser reads the authenticated user id injected by the auth middleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, apperr.Unauthorized("user not authenticated"))
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, apperr.Unauthorized("user not authenticated"))
		return uuid.Nil, false
	}
	return userID, true
}

// respondError writes the {code, message} payload. notFoundStatus lets the
// quiz-detail endpoint surface NotFound as 404 while mutations use 400, as
// the API contract requires.
func respondError(c *gin.Context, err error, notFoundStatus int) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status := http.StatusBadRequest
		switch appErr.Code {
		case apperr.CodeNotFound:
			status = notFoundStatus
		case apperr.CodeUnauthorized:
			status = http.StatusUnauthorized
		}
		c.JSON(status, appErr)
		return
	}

	c.JSON(http.StatusInternalServerError, &apperr.Error{
		Code:    "Error.Internal",
		Message: "An unexpected error occurred.",
	})
}
