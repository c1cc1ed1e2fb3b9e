package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-exam-api/internal/database"
	"github.com/noah-isme/gema-exam-api/internal/dto"
	"github.com/noah-isme/gema-exam-api/internal/grading"
	"github.com/noah-isme/gema-exam-api/internal/models"
	"github.com/noah-isme/gema-exam-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// seedRelativityExam stores an exam with an MCQ question (expected "B", max 2) and a SHORT
// question (expected "gravity bends spacetime", max 4).
func seedRelativityExam(t *testing.T, db *gorm.DB) models.Exam {
	t.Helper()
	exam := models.Exam{
		Title:           "Relativity",
		Course:          "PHYS-201",
		DurationMinutes: 45,
		Questions: []models.Question{
			{Type: models.QuestionTypeMCQ, Prompt: "Pick one", ExpectedAnswer: "B", Options: []string{"A", "B", "C"}, MaxScore: 2},
			{Type: models.QuestionTypeShort, Prompt: "Explain gravity", ExpectedAnswer: "gravity bends spacetime", MaxScore: 4},
		},
	}
	require.NoError(t, db.Create(&exam).Error)
	return exam
}

func workedExamplePayload(exam models.Exam) dto.SubmissionCreateRequest {
	return dto.SubmissionCreateRequest{
		ExamID: exam.ID,
		Answers: []dto.SubmissionAnswerInput{
			{QuestionID: exam.Questions[0].ID, SelectedOption: "b"},
			{QuestionID: exam.Questions[1].ID, AnswerText: "Spacetime is bent by gravity and mass"},
		},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.SubmissionGradedEvent
	err    error
}

func (p *recordingPublisher) PublishGraded(ctx context.Context, event dto.SubmissionGradedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) published() []dto.SubmissionGradedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dto.SubmissionGradedEvent(nil), p.events...)
}

func newTestSubmissionService(db *gorm.DB, events GradeEventPublisher) SubmissionService {
	return NewSubmissionService(
		repository.NewTransactor(db),
		repository.NewSubmissionRepository(db),
		grading.NewEngine(),
		events,
		validator.New(),
		testLogger(),
	)
}

func countSubmissions(t *testing.T, db *gorm.DB) (submissions int64, answers int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.Submission{}).Count(&submissions).Error)
	require.NoError(t, db.Model(&models.Answer{}).Count(&answers).Error)
	return submissions, answers
}
