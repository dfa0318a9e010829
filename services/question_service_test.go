package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quizmaster/apperr"
	"quizmaster/logger"
	"quizmaster/repository"
)

func newQuestionFixture(t *testing.T) (*gorm.DB, *QuestionService, *QuizService, uuid.UUID, uint) {
	t.Helper()

	db := newServiceDB(t)
	repo := repository.NewQuizRepository(db)
	quizSvc := NewQuizService(repo, &fakeGenerator{payload: generatedPayload(2)}, nil, logger.Nop())
	questionSvc := NewQuestionService(repo, nil, logger.Nop())
	userID := uuid.New()

	resp, err := quizSvc.CreateQuiz(context.Background(), userID, validCreateRequest())
	require.NoError(t, err)

	return db, questionSvc, quizSvc, userID, resp.ID
}

func validUpdateRequest(questionID uint) *UpdateQuestionRequest {
	return &UpdateQuestionRequest{
		ID:   questionID,
		Text: "What is the capital of Germany?",
		Answers: []AnswerInput{
			{Text: "Berlin", IsCorrect: true},
			{Text: "Munich", IsCorrect: false},
			{Text: "Hamburg", IsCorrect: false},
		},
	}
}

func TestUpdateQuestion_ReplacesAnswers(t *testing.T) {
	_, questionSvc, quizSvc, userID, quizID := newQuestionFixture(t)

	details, err := quizSvc.GetQuizDetails(context.Background(), userID, quizID)
	require.NoError(t, err)
	questionID := details.Questions[0].ID

	resp, err := questionSvc.UpdateQuestion(context.Background(), userID, questionID, validUpdateRequest(questionID))
	require.NoError(t, err)
	assert.Equal(t, questionID, resp.ID)

	details, err = quizSvc.GetQuizDetails(context.Background(), userID, quizID)
	require.NoError(t, err)

	updated := details.Questions[0]
	assert.Equal(t, "What is the capital of Germany?", updated.Text)
	require.Len(t, updated.Answers, 3)

	correct := 0
	for _, a := range updated.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	assert.Equal(t, 1, correct)
}

func TestUpdateQuestion_Validation(t *testing.T) {
	_, questionSvc, quizSvc, userID, quizID := newQuestionFixture(t)

	details, err := quizSvc.GetQuizDetails(context.Background(), userID, quizID)
	require.NoError(t, err)
	questionID := details.Questions[0].ID

	cases := []struct {
		name   string
		mutate func(*UpdateQuestionRequest)
	}{
		{"mismatched id", func(r *UpdateQuestionRequest) { r.ID = questionID + 1 }},
		{"empty text", func(r *UpdateQuestionRequest) { r.Text = "  " }},
		{"no answers", func(r *UpdateQuestionRequest) { r.Answers = nil }},
		{"empty answer text", func(r *UpdateQuestionRequest) { r.Answers[0].Text = "" }},
		{"no correct answer", func(r *UpdateQuestionRequest) {
			for i := range r.Answers {
				r.Answers[i].IsCorrect = false
			}
		}},
		{"two correct answers", func(r *UpdateQuestionRequest) { r.Answers[1].IsCorrect = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validUpdateRequest(questionID)
			tc.mutate(req)

			_, err := questionSvc.UpdateQuestion(context.Background(), userID, questionID, req)
			require.Error(t, err)

			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
		})
	}
}

func TestUpdateQuestion_NotFoundAndForeign(t *testing.T) {
	_, questionSvc, quizSvc, userID, quizID := newQuestionFixture(t)

	var appErr *apperr.Error

	_, err := questionSvc.UpdateQuestion(context.Background(), userID, 9999, validUpdateRequest(9999))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)

	details, err := quizSvc.GetQuizDetails(context.Background(), userID, quizID)
	require.NoError(t, err)
	questionID := details.Questions[0].ID

	_, err = questionSvc.UpdateQuestion(context.Background(), uuid.New(), questionID, validUpdateRequest(questionID))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
}

func TestDeleteQuestion(t *testing.T) {
	_, questionSvc, quizSvc, userID, quizID := newQuestionFixture(t)

	details, err := quizSvc.GetQuizDetails(context.Background(), userID, quizID)
	require.NoError(t, err)
	require.Len(t, details.Questions, 2)
	questionID := details.Questions[0].ID

	require.NoError(t, questionSvc.DeleteQuestion(context.Background(), userID, questionID))

	details, err = quizSvc.GetQuizDetails(context.Background(), userID, quizID)
	require.NoError(t, err)
	assert.Len(t, details.Questions, 1)

	var appErr *apperr.Error

	err = questionSvc.DeleteQuestion(context.Background(), userID, questionID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)

	err = questionSvc.DeleteQuestion(context.Background(), userID, 0)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}
