package generator

import (
	"encoding/json"
	"errors"
	"fmt"

	"quizmaster/models"
)

// ErrMalformedResponse means the provider payload did not match the declared
// schema. It must propagate: a quiz with missing answers is unusable.
var ErrMalformedResponse = errors.New("malformed generator response")

// Pointer fields distinguish an absent key from a zero value.
type rawQuestion struct {
	Text    *string     `json:"text"`
	Answers []rawAnswer `json:"answers"`
}

type rawAnswer struct {
	Text      *string `json:"text"`
	IsCorrect *bool   `json:"isCorrect"`
}

type rawPayload struct {
	Questions []rawQuestion `json:"questions"`
}

// ParseQuestions maps the structured completion payload into question and
// answer records ready to attach to a quiz.
func ParseQuestions(raw string) ([]models.Question, error) {
	var payload rawPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("%w: payload contains no questions", ErrMalformedResponse)
	}

	questions := make([]models.Question, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		if q.Text == nil || *q.Text == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrMalformedResponse, i)
		}
		if len(q.Answers) == 0 {
			return nil, fmt.Errorf("%w: question %d has no answers", ErrMalformedResponse, i)
		}

		answers := make([]models.Answer, 0, len(q.Answers))
		for j, a := range q.Answers {
			if a.Text == nil || *a.Text == "" {
				return nil, fmt.Errorf("%w: question %d answer %d has no text", ErrMalformedResponse, i, j)
			}
			if a.IsCorrect == nil {
				return nil, fmt.Errorf("%w: question %d answer %d has no isCorrect flag", ErrMalformedResponse, i, j)
			}
			answers = append(answers, models.Answer{
				Text:      *a.Text,
				IsCorrect: *a.IsCorrect,
			})
		}

		questions = append(questions, models.Question{
			Text:    *q.Text,
			Answers: answers,
		})
	}

	return questions, nil
}
