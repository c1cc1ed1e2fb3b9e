package models

import "time"

// SubmissionStatus describes where a submission is in its lifecycle.
type SubmissionStatus string

const (
	// SubmissionStatusInProgress is reserved for attempts that have not been handed in.
	SubmissionStatusInProgress SubmissionStatus = "IN_PROGRESS"
	// SubmissionStatusSubmitted indicates answers are stored but not yet scored.
	SubmissionStatusSubmitted SubmissionStatus = "SUBMITTED"
	// SubmissionStatusGraded indicates every answer and the total have been scored.
	SubmissionStatusGraded SubmissionStatus = "GRADED"
)

// Submission is one student's complete attempt at an exam.
type Submission struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	StudentID   uint             `gorm:"not null;uniqueIndex:uniq_student_exam_submission,priority:1;index:idx_submission_student_submitted,priority:1" json:"student_id"`
	ExamID      uint             `gorm:"not null;uniqueIndex:uniq_student_exam_submission,priority:2;index:idx_submission_exam_graded,priority:1" json:"exam_id"`
	Status      SubmissionStatus `gorm:"size:20;not null;index" json:"status"`
	SubmittedAt *time.Time       `gorm:"index:idx_submission_student_submitted,priority:2" json:"submitted_at"`
	GradedAt    *time.Time       `gorm:"index:idx_submission_exam_graded,priority:2" json:"graded_at"`
	Score       float64          `gorm:"not null" json:"score"`
	GradeLetter string           `gorm:"size:5" json:"grade_letter"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Exam        Exam             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"exam"`
	Answers     []Answer         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers"`
}

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

// Answer is a student's response to one question within a submission.
type Answer struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	SubmissionID   uint     `gorm:"not null;uniqueIndex:uniq_submission_question_answer,priority:1" json:"submission_id"`
	QuestionID     uint     `gorm:"not null;uniqueIndex:uniq_submission_question_answer,priority:2;index" json:"question_id"`
	AnswerText     string   `gorm:"type:text" json:"answer_text"`
	SelectedOption string   `gorm:"size:255" json:"selected_option"`
	AwardedScore   float64  `gorm:"not null" json:"awarded_score"`
	Feedback       string   `gorm:"type:text" json:"feedback"`
	Question       Question `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"question"`
}
