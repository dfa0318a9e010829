// Package repository holds the relational CRUD operations for the
// quiz/question/answer graph. Every mutating operation is ownership-scoped
// through assertOwned and runs inside a single transaction; child rows are
// deleted explicitly before their parent so the behavior does not depend on
// database-level cascades.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quizmaster/models"
	"quizmaster/pagination"
)

// ErrNotFound is returned when an entity is absent or not owned by the caller.
// The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("record not found")

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// Create inserts the quiz together with all its questions and answers in one
// transaction and fills in the generated ids.
func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	tx := r.db.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Omit("Questions").Create(quiz).Error; err != nil {
		tx.Rollback()
		return err
	}

	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		question.QuizID = quiz.ID

		if err := tx.Omit("Answers").Create(question).Error; err != nil {
			tx.Rollback()
			return err
		}

		for j := range question.Answers {
			answer := &question.Answers[j]
			answer.QuestionID = question.ID

			if err := tx.Create(answer).Error; err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	return tx.Commit().Error
}

// PageByUser returns the caller's quizzes in insertion order, sliced by page.
func (r *QuizRepository) PageByUser(ctx context.Context, userID uuid.UUID, pageNumber, pageSize int) (pagination.List[models.Quiz], error) {
	var totalCount int64
	if err := r.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("user_id = ?", userID).
		Count(&totalCount).Error; err != nil {
		return pagination.List[models.Quiz]{}, err
	}

	var quizzes []models.Quiz
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Offset(pagination.Offset(pageNumber, pageSize)).
		Limit(pageSize).
		Find(&quizzes).Error; err != nil {
		return pagination.List[models.Quiz]{}, err
	}

	return pagination.New(quizzes, totalCount, pageNumber, pageSize), nil
}

// DetailsByUser loads a quiz with its questions and answers.
func (r *QuizRepository) DetailsByUser(ctx context.Context, userID uuid.UUID, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", quizID, userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id")
		}).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) UpdateTitle(ctx context.Context, userID uuid.UUID, quizID uint, title string) error {
	db := r.db.WithContext(ctx)

	quiz, err := r.assertOwned(db, userID, quizID)
	if err != nil {
		return err
	}

	return db.Model(quiz).Update("title", title).Error
}

// DeleteQuiz removes the quiz and everything under it. Deleting an id that is
// already gone returns ErrNotFound, not success.
func (r *QuizRepository) DeleteQuiz(ctx context.Context, userID uuid.UUID, quizID uint) error {
	tx := r.db.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	quiz, err := r.assertOwned(tx, userID, quizID)
	if err != nil {
		tx.Rollback()
		return err
	}

	var questionIDs []uint
	if err := tx.Model(&models.Question{}).
		Where("quiz_id = ?", quiz.ID).
		Pluck("id", &questionIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(questionIDs) > 0 {
		if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Answer{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Delete(quiz).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// DeleteQuestion removes one question and its answers. Ownership is checked
// through the parent quiz; it is not stored on the question itself.
func (r *QuizRepository) DeleteQuestion(ctx context.Context, userID uuid.UUID, questionID uint) (uint, error) {
	tx := r.db.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	question, err := r.ownedQuestion(tx, userID, questionID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Delete(question).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return question.QuizID, nil
}

// ReplaceQuestion updates the question text and swaps in a full new answer
// set. Delete-all-then-insert, not a merge.
func (r *QuizRepository) ReplaceQuestion(ctx context.Context, userID uuid.UUID, questionID uint, text string, answers []models.Answer) (uint, error) {
	tx := r.db.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	question, err := r.ownedQuestion(tx, userID, questionID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Model(question).Update("text", text).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	for i := range answers {
		answer := answers[i]
		answer.ID = 0
		answer.QuestionID = question.ID
		if err := tx.Create(&answer).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return question.QuizID, nil
}

// assertOwned is the single ownership policy for quiz mutations.
func (r *QuizRepository) assertOwned(db *gorm.DB, userID uuid.UUID, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := db.Where("id = ? AND user_id = ?", quizID, userID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ownedQuestion resolves a question and verifies the parent quiz belongs to
// the caller.
func (r *QuizRepository) ownedQuestion(db *gorm.DB, userID uuid.UUID, questionID uint) (*models.Question, error) {
	var question models.Question
	err := db.First(&question, questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := r.assertOwned(db, userID, question.QuizID); err != nil {
		return nil, err
	}
	return &question, nil
}
