package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-exam-api/internal/models"
)

func newSubmission(studentID, examID uint) *models.Submission {
	now := time.Now().UTC()
	return &models.Submission{
		StudentID:   studentID,
		ExamID:      examID,
		Status:      models.SubmissionStatusSubmitted,
		SubmittedAt: &now,
	}
}

func TestSubmissionRepositoryCreateAndLoadAggregate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exam := seedExam(t, db)
	ctx := context.Background()

	submission := newSubmission(7, exam.ID)
	answers := []models.Answer{
		{QuestionID: exam.Questions[0].ID, SelectedOption: "b"},
		{QuestionID: exam.Questions[1].ID, AnswerText: "gravity"},
	}
	require.NoError(t, repo.CreateWithAnswers(ctx, submission, answers))
	require.NotZero(t, submission.ID)
	require.Len(t, submission.Answers, 2)

	loaded, err := repo.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	require.Equal(t, exam.Title, loaded.Exam.Title)
	require.Len(t, loaded.Answers, 2)
	require.Less(t, loaded.Answers[0].ID, loaded.Answers[1].ID)
	for _, answer := range loaded.Answers {
		require.Equal(t, answer.QuestionID, answer.Question.ID, "question association is preloaded")
	}

	exists, err := repo.ExistsForStudent(ctx, 7, exam.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsForStudent(ctx, 8, exam.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestSubmissionRepositoryRejectsDuplicateStudentExam(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exam := seedExam(t, db)
	ctx := context.Background()

	require.NoError(t, repo.CreateWithAnswers(ctx, newSubmission(3, exam.ID), []models.Answer{{QuestionID: exam.Questions[0].ID, SelectedOption: "a"}}))

	err := repo.CreateWithAnswers(ctx, newSubmission(3, exam.ID), []models.Answer{{QuestionID: exam.Questions[0].ID, SelectedOption: "b"}})
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&models.Answer{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestSubmissionRepositoryRejectsDuplicateAnswerAtomically(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exam := seedExam(t, db)

	answers := []models.Answer{
		{QuestionID: exam.Questions[0].ID, SelectedOption: "a"},
		{QuestionID: exam.Questions[0].ID, SelectedOption: "b"},
	}
	err := repo.CreateWithAnswers(context.Background(), newSubmission(4, exam.ID), answers)
	require.True(t, IsUniqueViolation(err))

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	require.Zero(t, count, "submission row is rolled back with its answers")
}

func TestSubmissionRepositoryUpdateScoresAndFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exam := seedExam(t, db)
	ctx := context.Background()

	submission := newSubmission(5, exam.ID)
	require.NoError(t, repo.CreateWithAnswers(ctx, submission, []models.Answer{
		{QuestionID: exam.Questions[0].ID, SelectedOption: "b"},
		{QuestionID: exam.Questions[1].ID, AnswerText: "spacetime"},
	}))

	loaded, err := repo.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	loaded.Answers[0].AwardedScore = 2
	loaded.Answers[0].Feedback = "Correct"
	loaded.Answers[1].AwardedScore = 1.33
	loaded.Answers[1].Feedback = "Keyword overlap: 1/3"
	require.NoError(t, repo.UpdateAnswerScores(ctx, loaded.Answers))

	gradedAt := time.Now().UTC()
	loaded.Score = 3.33
	loaded.GradeLetter = "F"
	loaded.Status = models.SubmissionStatusGraded
	loaded.GradedAt = &gradedAt
	loaded.StudentID = 999
	require.NoError(t, repo.UpdateFields(ctx, &loaded, "score", "graded_at", "status", "grade_letter"))

	stored, err := repo.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusGraded, stored.Status)
	require.Equal(t, 3.33, stored.Score)
	require.Equal(t, "F", stored.GradeLetter)
	require.NotNil(t, stored.GradedAt)
	require.Equal(t, uint(5), stored.StudentID, "unselected fields are not written")
	require.Equal(t, 2.0, stored.Answers[0].AwardedScore)
	require.Equal(t, "Correct", stored.Answers[0].Feedback)
	require.Equal(t, "b", stored.Answers[0].SelectedOption)
	require.Equal(t, 1.33, stored.Answers[1].AwardedScore)
	require.Equal(t, "spacetime", stored.Answers[1].AnswerText)

	var answerCount int64
	require.NoError(t, db.Model(&models.Answer{}).Count(&answerCount).Error)
	require.Equal(t, int64(2), answerCount, "score update does not insert rows")

	missing := models.Submission{ID: submission.ID + 50}
	require.ErrorIs(t, repo.UpdateFields(ctx, &missing, "score"), gorm.ErrRecordNotFound)
}

func TestSubmissionRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	first := seedExam(t, db)
	second := seedExam(t, db)
	ctx := context.Background()

	earlier := newSubmission(1, first.ID)
	past := earlier.SubmittedAt.Add(-time.Hour)
	earlier.SubmittedAt = &past
	require.NoError(t, repo.CreateWithAnswers(ctx, earlier, nil))
	require.NoError(t, repo.CreateWithAnswers(ctx, newSubmission(1, second.ID), nil))
	require.NoError(t, repo.CreateWithAnswers(ctx, newSubmission(2, first.ID), nil))

	all, err := repo.List(ctx, SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	studentID := uint(1)
	mine, err := repo.List(ctx, SubmissionFilter{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, second.ID, mine[0].ExamID, "newest submission first")

	examID := first.ID
	byExam, err := repo.List(ctx, SubmissionFilter{StudentID: &studentID, ExamID: &examID})
	require.NoError(t, err)
	require.Len(t, byExam, 1)

	graded := models.SubmissionStatusGraded
	none, err := repo.List(ctx, SubmissionFilter{Status: &graded})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestTransactorRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	exam := seedExam(t, db)
	transactor := NewTransactor(db)
	boom := errors.New("grading failed")

	err := transactor.WithinTransaction(context.Background(), func(repos Repositories) error {
		if err := repos.Submissions.CreateWithAnswers(context.Background(), newSubmission(9, exam.ID), []models.Answer{{QuestionID: exam.Questions[0].ID, SelectedOption: "a"}}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Answer{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestIsUniqueViolation(t *testing.T) {
	require.False(t, IsUniqueViolation(nil))
	require.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	require.True(t, IsUniqueViolation(errors.New("ERROR: duplicate key value violates unique constraint \"uniq_student_exam_submission\" (SQLSTATE 23505)")))
	require.False(t, IsUniqueViolation(errors.New("connection reset")))
}

func TestSubmissionRepositoryUpdateScoresIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	exam := seedExam(t, db)
	ctx := context.Background()

	submission := newSubmission(6, exam.ID)
	require.NoError(t, repo.CreateWithAnswers(ctx, submission, []models.Answer{
		{QuestionID: exam.Questions[0].ID, SelectedOption: "B"},
		{QuestionID: exam.Questions[1].ID, AnswerText: "gravity"},
	}))

	loaded, err := repo.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	loaded.Answers[0].AwardedScore = 2
	loaded.Answers[0].Feedback = "Correct"
	stale := models.Answer{ID: loaded.Answers[1].ID + 100, AwardedScore: 4, Feedback: "gone"}

	err = repo.UpdateAnswerScores(ctx, []models.Answer{loaded.Answers[0], stale})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	stored, err := repo.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	require.Zero(t, stored.Answers[0].AwardedScore, "no row is written when any id is missing")
	require.Empty(t, stored.Answers[0].Feedback)

	loaded.Answers[1].AwardedScore = 0.67
	loaded.Answers[1].Feedback = "Keyword overlap: 1/3"
	require.NoError(t, repo.UpdateAnswerScores(ctx, loaded.Answers))

	stored, err = repo.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	require.Equal(t, 2.0, stored.Answers[0].AwardedScore)
	require.Equal(t, 0.67, stored.Answers[1].AwardedScore)
	require.Equal(t, "Keyword overlap: 1/3", stored.Answers[1].Feedback)
}
