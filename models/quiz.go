package models

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty int

const (
	DifficultyEasy Difficulty = iota + 1
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

type Quiz struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	UserID            uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Title             string     `json:"title" gorm:"not null"`
	Topic             string     `json:"topic" gorm:"size:150;not null"`
	Difficulty        Difficulty `json:"difficulty" gorm:"not null"`
	NumberOfQuestions int        `json:"numberOfQuestions" gorm:"not null"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	// Relationships
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}
