package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionType enumerates the gradable question kinds.
type QuestionType string

const (
	// QuestionTypeMCQ is a multiple choice question graded by exact option match.
	QuestionTypeMCQ QuestionType = "MCQ"
	// QuestionTypeShort is a short free-text answer graded by keyword overlap.
	QuestionTypeShort QuestionType = "SHORT"
	// QuestionTypeEssay is a long free-text answer graded by keyword overlap.
	QuestionTypeEssay QuestionType = "ESSAY"
)

// Valid reports whether the type is one of the known question kinds.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeShort, QuestionTypeEssay:
		return true
	default:
		return false
	}
}

// IsText reports whether answers to this type are free text.
func (t QuestionType) IsText() bool {
	return t == QuestionTypeShort || t == QuestionTypeEssay
}

// Exam is a named assessment owning an ordered set of questions.
type Exam struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	Title           string            `gorm:"size:255;not null;index" json:"title"`
	Course          string            `gorm:"size:255;not null;index" json:"course"`
	DurationMinutes uint              `gorm:"not null" json:"duration_minutes"`
	Metadata        datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Questions       []Question        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions,omitempty"`
}

// Question is one gradable item of an exam.
type Question struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	ExamID         uint                        `gorm:"not null;index:idx_question_exam_type,priority:1" json:"exam_id"`
	Type           QuestionType                `gorm:"column:question_type;size:10;not null;index:idx_question_exam_type,priority:2" json:"question_type"`
	Prompt         string                      `gorm:"type:text;not null" json:"prompt"`
	ExpectedAnswer string                      `gorm:"type:text" json:"expected_answer"`
	Options        datatypes.JSONSlice[string] `gorm:"type:json" json:"options"`
	MaxScore       uint                        `gorm:"not null;default:1" json:"max_score"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// BeforeSave enforces the question invariants.
func (q *Question) BeforeSave(tx *gorm.DB) error {
	q.Type = QuestionType(strings.ToUpper(strings.TrimSpace(string(q.Type))))
	if !q.Type.Valid() {
		return fmt.Errorf("unsupported question type %q", q.Type)
	}
	if q.MaxScore == 0 {
		q.MaxScore = 1
	}
	return nil
}
