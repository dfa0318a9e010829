package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizmaster/apperr"
	"quizmaster/services"
)

type QuestionHandler struct {
	questionService *services.QuestionService
}

func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	questionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Validation("invalid question ID"))
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Validation(err.Error()))
		return
	}

	resp, err := h.questionService.UpdateQuestion(c.Request.Context(), userID, uint(questionID), &req)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	questionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Validation("invalid question ID"))
		return
	}

	if err := h.questionService.DeleteQuestion(c.Request.Context(), userID, uint(questionID)); err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.Status(http.StatusNoContent)
}
