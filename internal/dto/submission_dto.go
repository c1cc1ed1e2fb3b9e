package dto

import (
	"time"

	"github.com/noah-isme/gema-exam-api/internal/models"
)

// SubmissionAnswerInput is one answer in a submission payload. MCQ answers carry
// selected_option; SHORT and ESSAY answers carry answer_text.
type SubmissionAnswerInput struct {
	QuestionID     uint   `json:"question_id" validate:"required,gt=0"`
	AnswerText     string `json:"answer_text" validate:"max=20000"`
	SelectedOption string `json:"selected_option" validate:"max=255"`
}

// SubmissionCreateRequest is the payload accepted when a student hands in an exam.
type SubmissionCreateRequest struct {
	ExamID  uint                    `json:"exam_id" validate:"required,gt=0"`
	Answers []SubmissionAnswerInput `json:"answers" validate:"dive"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	ExamID *uint   `query:"exam_id"`
	Status *string `query:"status" validate:"omitempty,oneof=IN_PROGRESS SUBMITTED GRADED"`
}

// SubmissionAnswerResponse serializes a graded answer together with its question summary.
type SubmissionAnswerResponse struct {
	ID             uint                `json:"id"`
	QuestionID     uint                `json:"question_id"`
	QuestionPrompt string              `json:"question_prompt"`
	QuestionType   models.QuestionType `json:"question_type"`
	MaxScore       uint                `json:"max_score"`
	AnswerText     string              `json:"answer_text"`
	SelectedOption string              `json:"selected_option"`
	AwardedScore   float64             `json:"awarded_score"`
	Feedback       string              `json:"feedback"`
}

// SubmissionDetailResponse is the fully graded submission returned to clients.
type SubmissionDetailResponse struct {
	ID          uint                       `json:"id"`
	ExamID      uint                       `json:"exam_id"`
	ExamTitle   string                     `json:"exam_title"`
	Course      string                     `json:"course"`
	Status      models.SubmissionStatus    `json:"status"`
	SubmittedAt *time.Time                 `json:"submitted_at"`
	GradedAt    *time.Time                 `json:"graded_at"`
	Score       float64                    `json:"score"`
	GradeLetter string                     `json:"grade_letter"`
	Answers     []SubmissionAnswerResponse `json:"answers"`
}

// NewSubmissionDetailResponse converts a loaded submission aggregate into a DTO.
func NewSubmissionDetailResponse(model models.Submission) SubmissionDetailResponse {
	response := SubmissionDetailResponse{
		ID:          model.ID,
		ExamID:      model.ExamID,
		ExamTitle:   model.Exam.Title,
		Course:      model.Exam.Course,
		Status:      model.Status,
		SubmittedAt: model.SubmittedAt,
		GradedAt:    model.GradedAt,
		Score:       model.Score,
		GradeLetter: model.GradeLetter,
		Answers:     make([]SubmissionAnswerResponse, 0, len(model.Answers)),
	}

	for _, answer := range model.Answers {
		response.Answers = append(response.Answers, SubmissionAnswerResponse{
			ID:             answer.ID,
			QuestionID:     answer.QuestionID,
			QuestionPrompt: answer.Question.Prompt,
			QuestionType:   answer.Question.Type,
			MaxScore:       answer.Question.MaxScore,
			AnswerText:     answer.AnswerText,
			SelectedOption: answer.SelectedOption,
			AwardedScore:   answer.AwardedScore,
			Feedback:       answer.Feedback,
		})
	}

	return response
}

// NewSubmissionDetailResponseSlice converts submission models into DTOs.
func NewSubmissionDetailResponseSlice(models []models.Submission) []SubmissionDetailResponse {
	responses := make([]SubmissionDetailResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionDetailResponse(submission))
	}

	return responses
}

// SubmissionGradedEvent is broadcast after a submission commits in the GRADED state.
type SubmissionGradedEvent struct {
	SubmissionID uint      `json:"submission_id"`
	StudentID    uint      `json:"student_id"`
	ExamID       uint      `json:"exam_id"`
	Score        float64   `json:"score"`
	GradeLetter  string    `json:"grade_letter"`
	GradedAt     time.Time `json:"graded_at"`
}
