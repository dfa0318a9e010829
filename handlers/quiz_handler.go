package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizmaster/apperr"
	"quizmaster/services"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Validation(err.Error()))
		return
	}

	resp, err := h.quizService.CreateQuiz(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *QuizHandler) GetQuizzes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	pageNumber, err := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Validation("pageNumber must be an integer"))
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Validation("pageSize must be an integer"))
		return
	}

	page, err := h.quizService.GetQuizzes(c.Request.Context(), userID, pageNumber, pageSize)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *QuizHandler) GetQuizDetails(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, apperr.NotFound("Quiz not found."))
		return
	}

	details, err := h.quizService.GetQuizDetails(c.Request.Context(), userID, uint(quizID))
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *QuizHandler) UpdateTitle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Validation("invalid quiz ID"))
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Validation(err.Error()))
		return
	}

	if err := h.quizService.UpdateTitle(c.Request.Context(), userID, uint(quizID), req.Title); err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Validation("invalid quiz ID"))
		return
	}

	if err := h.quizService.DeleteQuiz(c.Request.Context(), userID, uint(quizID)); err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.Status(http.StatusNoContent)
}
