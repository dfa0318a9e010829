package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quizmaster/apperr"
	"quizmaster/generator"
	"quizmaster/logger"
	"quizmaster/models"
	"quizmaster/pagination"
	"quizmaster/repository"
)

const maxTopicLength = 150

type QuizService struct {
	repo      *repository.QuizRepository
	generator generator.Client
	rdb       *redis.Client
	log       *logger.Logger
}

// NewQuizService wires the quiz use cases. rdb may be nil; the detail cache is
// then skipped entirely.
func NewQuizService(repo *repository.QuizRepository, gen generator.Client, rdb *redis.Client, log *logger.Logger) *QuizService {
	return &QuizService{
		repo:      repo,
		generator: gen,
		rdb:       rdb,
		log:       log.With("component", "quiz_service"),
	}
}

type CreateQuizRequest struct {
	Title             string `json:"title"`
	Topic             string `json:"topic"`
	Difficulty        int    `json:"difficulty"`
	NumberOfQuestions int    `json:"numberOfQuestions"`
}

type CreateQuizResponse struct {
	ID uint `json:"id"`
}

type QuizSummary struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	Topic             string `json:"topic"`
	Difficulty        int    `json:"difficulty"`
	NumberOfQuestions int    `json:"numberOfQuestions"`
}

type QuizDetails struct {
	ID                uint          `json:"id"`
	Title             string        `json:"title"`
	Topic             string        `json:"topic"`
	Difficulty        int           `json:"difficulty"`
	NumberOfQuestions int           `json:"numberOfQuestions"`
	Questions         []QuestionDTO `json:"questions"`
}

type QuestionDTO struct {
	ID      uint        `json:"id"`
	Text    string      `json:"text"`
	Answers []AnswerDTO `json:"answers"`
}

type AnswerDTO struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// CreateQuiz validates the request, asks the generator for content, and
// persists the whole quiz graph in one transaction. Any generator failure
// means nothing is persisted.
func (s *QuizService) CreateQuiz(ctx context.Context, userID uuid.UUID, req *CreateQuizRequest) (*CreateQuizResponse, error) {
	if err := validateCreateQuiz(req); err != nil {
		return nil, err
	}

	s.log.Info("creating quiz",
		"user_id", userID,
		"topic", req.Topic,
		"difficulty", models.Difficulty(req.Difficulty).String(),
	)

	quiz := models.Quiz{
		UserID:            userID,
		Title:             strings.TrimSpace(req.Title),
		Topic:             strings.TrimSpace(req.Topic),
		Difficulty:        models.Difficulty(req.Difficulty),
		NumberOfQuestions: req.NumberOfQuestions,
	}

	raw, err := s.generator.Generate(ctx, quiz.Topic, req.Difficulty, req.NumberOfQuestions)
	if err != nil {
		s.log.Error("generation call failed", "error", err)
		return nil, apperr.ThirdParty("Error while asking the generation API.")
	}

	questions, err := generator.ParseQuestions(raw)
	if err != nil {
		s.log.Error("generator payload did not match schema", "error", err)
		return nil, apperr.ThirdParty("Error while asking the generation API.")
	}
	quiz.Questions = questions

	if err := s.repo.Create(ctx, &quiz); err != nil {
		s.log.Error("failed to persist quiz", "error", err)
		return nil, apperr.ThirdParty("Error while asking the generation API.")
	}

	s.log.Info("quiz created", "quiz_id", quiz.ID, "questions", len(quiz.Questions))

	return &CreateQuizResponse{ID: quiz.ID}, nil
}

func (s *QuizService) GetQuizzes(ctx context.Context, userID uuid.UUID, pageNumber, pageSize int) (pagination.List[QuizSummary], error) {
	if pageNumber < 1 {
		return pagination.List[QuizSummary]{}, apperr.Validation("pageNumber must be greater than or equal to 1")
	}
	if pageSize < 1 {
		return pagination.List[QuizSummary]{}, apperr.Validation("pageSize must be greater than or equal to 1")
	}

	page, err := s.repo.PageByUser(ctx, userID, pageNumber, pageSize)
	if err != nil {
		return pagination.List[QuizSummary]{}, err
	}

	return pagination.Map(page, func(q models.Quiz) QuizSummary {
		return QuizSummary{
			ID:                q.ID,
			Title:             q.Title,
			Topic:             q.Topic,
			Difficulty:        int(q.Difficulty),
			NumberOfQuestions: q.NumberOfQuestions,
		}
	}), nil
}

func (s *QuizService) GetQuizDetails(ctx context.Context, userID uuid.UUID, quizID uint) (*QuizDetails, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, quizDetailsKey(userID, quizID)).Result(); err == nil {
			var details QuizDetails
			if err := json.Unmarshal([]byte(cached), &details); err == nil {
				return &details, nil
			}
		}
	}

	quiz, err := s.repo.DetailsByUser(ctx, userID, quizID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Quiz not found.")
	}
	if err != nil {
		return nil, err
	}

	details := toQuizDetails(quiz)

	if s.rdb != nil {
		if payload, err := json.Marshal(details); err == nil {
			s.rdb.Set(ctx, quizDetailsKey(userID, quizID), payload, quizDetailsTTL)
		}
	}

	return details, nil
}

func (s *QuizService) UpdateTitle(ctx context.Context, userID uuid.UUID, quizID uint, title string) error {
	if quizID == 0 {
		return apperr.Validation("quizId must be greater than 0")
	}
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title must not be empty")
	}

	err := s.repo.UpdateTitle(ctx, userID, quizID, strings.TrimSpace(title))
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Quiz not found or you have no access to this quiz.")
	}
	if err != nil {
		return err
	}

	invalidateQuizDetails(ctx, s.rdb, userID, quizID)
	return nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, userID uuid.UUID, quizID uint) error {
	err := s.repo.DeleteQuiz(ctx, userID, quizID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Quiz not found or you have no access to this quiz.")
	}
	if err != nil {
		return err
	}

	s.log.Info("quiz deleted", "quiz_id", quizID)

	invalidateQuizDetails(ctx, s.rdb, userID, quizID)
	return nil
}

func validateCreateQuiz(req *CreateQuizRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return apperr.Validation("title must not be empty")
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return apperr.Validation("topic must not be empty")
	}
	if len(topic) > maxTopicLength {
		return apperr.Validation("topic must be at most 150 characters")
	}
	if !models.Difficulty(req.Difficulty).Valid() {
		return apperr.Validation("difficulty must be 1 (Easy), 2 (Medium) or 3 (Hard)")
	}
	if req.NumberOfQuestions < 1 || req.NumberOfQuestions > 25 {
		return apperr.Validation("numberOfQuestions must be between 1 and 25")
	}
	return nil
}

// NumberOfQuestions on the detail view reports the actual question count,
// which may differ from the requested count stored on the row.
func toQuizDetails(quiz *models.Quiz) *QuizDetails {
	questions := make([]QuestionDTO, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		answers := make([]AnswerDTO, 0, len(q.Answers))
		for _, a := range q.Answers {
			answers = append(answers, AnswerDTO{ID: a.ID, Text: a.Text, IsCorrect: a.IsCorrect})
		}
		questions = append(questions, QuestionDTO{ID: q.ID, Text: q.Text, Answers: answers})
	}

	return &QuizDetails{
		ID:                quiz.ID,
		Title:             quiz.Title,
		Topic:             quiz.Topic,
		Difficulty:        int(quiz.Difficulty),
		NumberOfQuestions: len(quiz.Questions),
		Questions:         questions,
	}
}
