package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quizmaster/apperr"
	"quizmaster/logger"
	"quizmaster/models"
	"quizmaster/repository"
)

type QuestionService struct {
	repo *repository.QuizRepository
	rdb  *redis.Client
	log  *logger.Logger
}

func NewQuestionService(repo *repository.QuizRepository, rdb *redis.Client, log *logger.Logger) *QuestionService {
	return &QuestionService{
		repo: repo,
		rdb:  rdb,
		log:  log.With("component", "question_service"),
	}
}

type UpdateQuestionRequest struct {
	ID      uint          `json:"id"`
	Text    string        `json:"text"`
	Answers []AnswerInput `json:"answers"`
}

type AnswerInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type UpdateQuestionResponse struct {
	ID uint `json:"id"`
}

// UpdateQuestion replaces the question text and its full answer set.
func (s *QuestionService) UpdateQuestion(ctx context.Context, userID uuid.UUID, questionID uint, req *UpdateQuestionRequest) (*UpdateQuestionResponse, error) {
	if req.ID != questionID {
		return nil, apperr.Validation("mismatched question ID")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.Validation("text must not be empty")
	}
	if len(req.Answers) == 0 {
		return nil, apperr.Validation("answers must not be empty")
	}

	correctCount := 0
	for _, a := range req.Answers {
		if strings.TrimSpace(a.Text) == "" {
			return nil, apperr.Validation("answer text must not be empty")
		}
		if a.IsCorrect {
			correctCount++
		}
	}
	if correctCount != 1 {
		return nil, apperr.Validation("exactly one answer must be marked as correct")
	}

	answers := make([]models.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, models.Answer{Text: a.Text, IsCorrect: a.IsCorrect})
	}

	quizID, err := s.repo.ReplaceQuestion(ctx, userID, questionID, strings.TrimSpace(req.Text), answers)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Question not found or you have no access to this question.")
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("question updated", "question_id", questionID)

	invalidateQuizDetails(ctx, s.rdb, userID, quizID)
	return &UpdateQuestionResponse{ID: questionID}, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, userID uuid.UUID, questionID uint) error {
	if questionID == 0 {
		return apperr.Validation("id must be greater than 0")
	}

	quizID, err := s.repo.DeleteQuestion(ctx, userID, questionID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Question not found or you have no access to this question.")
	}
	if err != nil {
		return err
	}

	s.log.Info("question deleted", "question_id", questionID)

	invalidateQuizDetails(ctx, s.rdb, userID, quizID)
	return nil
}
