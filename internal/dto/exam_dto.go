package dto

import (
	"time"

	"github.com/noah-isme/gema-exam-api/internal/models"
)

// ExamSummaryResponse describes an exam without its questions.
type ExamSummaryResponse struct {
	ID              uint                   `json:"id"`
	Title           string                 `json:"title"`
	Course          string                 `json:"course"`
	DurationMinutes uint                   `json:"duration_minutes"`
	Metadata        map[string]interface{} `json:"metadata"`
	CreatedAt       time.Time              `json:"created_at"`
}

// QuestionResponse exposes a question to test takers. Expected answers are never included.
type QuestionResponse struct {
	ID       uint                `json:"id"`
	Type     models.QuestionType `json:"question_type"`
	Prompt   string              `json:"prompt"`
	Options  []string            `json:"options"`
	MaxScore uint                `json:"max_score"`
}

// ExamDetailResponse describes an exam and its ordered questions.
type ExamDetailResponse struct {
	ExamSummaryResponse
	Questions []QuestionResponse `json:"questions"`
}

// NewExamSummaryResponse converts an exam model into a summary DTO.
func NewExamSummaryResponse(model models.Exam) ExamSummaryResponse {
	metadata := map[string]interface{}(model.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	return ExamSummaryResponse{
		ID:              model.ID,
		Title:           model.Title,
		Course:          model.Course,
		DurationMinutes: model.DurationMinutes,
		Metadata:        metadata,
		CreatedAt:       model.CreatedAt,
	}
}

// NewExamSummaryResponseSlice converts exam models into summary DTOs.
func NewExamSummaryResponseSlice(exams []models.Exam) []ExamSummaryResponse {
	responses := make([]ExamSummaryResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, NewExamSummaryResponse(exam))
	}
	return responses
}

// NewExamDetailResponse converts an exam with preloaded questions into a DTO.
func NewExamDetailResponse(model models.Exam) ExamDetailResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		options := []string(question.Options)
		if options == nil {
			options = []string{}
		}
		questions = append(questions, QuestionResponse{
			ID:       question.ID,
			Type:     question.Type,
			Prompt:   question.Prompt,
			Options:  options,
			MaxScore: question.MaxScore,
		})
	}

	return ExamDetailResponse{
		ExamSummaryResponse: NewExamSummaryResponse(model),
		Questions:           questions,
	}
}

// QuestionSeed describes a question in a catalog seed payload.
type QuestionSeed struct {
	Type           string   `json:"question_type" validate:"required,oneof=MCQ SHORT ESSAY mcq short essay"`
	Prompt         string   `json:"prompt" validate:"required"`
	ExpectedAnswer string   `json:"expected_answer"`
	Options        []string `json:"options"`
	MaxScore       uint     `json:"max_score" validate:"omitempty,gt=0"`
}

// ExamSeed describes an exam in a catalog seed payload.
type ExamSeed struct {
	Title           string                 `json:"title" validate:"required,max=255"`
	Course          string                 `json:"course" validate:"required,max=255"`
	DurationMinutes uint                   `json:"duration_minutes" validate:"required,gt=0"`
	Metadata        map[string]interface{} `json:"metadata"`
	Questions       []QuestionSeed         `json:"questions" validate:"dive"`
}

// ExamSeedRequest is the body accepted by the catalog seeding tool.
type ExamSeedRequest struct {
	Items []ExamSeed `json:"items" validate:"required,min=1,dive"`
}

// ToModel converts the seed into a catalog model.
func (s ExamSeed) ToModel() models.Exam {
	exam := models.Exam{
		Title:           s.Title,
		Course:          s.Course,
		DurationMinutes: s.DurationMinutes,
		Metadata:        s.Metadata,
		Questions:       make([]models.Question, 0, len(s.Questions)),
	}
	for _, q := range s.Questions {
		exam.Questions = append(exam.Questions, models.Question{
			Type:           models.QuestionType(q.Type),
			Prompt:         q.Prompt,
			ExpectedAnswer: q.ExpectedAnswer,
			Options:        q.Options,
			MaxScore:       q.MaxScore,
		})
	}
	return exam
}
