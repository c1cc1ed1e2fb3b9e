package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-exam-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	StudentID *uint
	ExamID    *uint
	Status    *models.SubmissionStatus
}

// SubmissionRepository defines data operations for submissions and their answers.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	LoadForGrading(ctx context.Context, id uint) (models.Submission, error)
	ExistsForStudent(ctx context.Context, studentID, examID uint) (bool, error)
	CreateWithAnswers(ctx context.Context, submission *models.Submission, answers []models.Answer) error
	UpdateAnswerScores(ctx context.Context, answers []models.Answer) error
	UpdateFields(ctx context.Context, submission *models.Submission, fields ...string) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// baseQuery materializes the full aggregate: exam, answers in id order, and each answer's question.
func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Exam").
		Preload("Answers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("answers.id ASC")
		}).
		Preload("Answers.Question")
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.baseQuery(ctx)

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.ExamID != nil {
		query = query.Where("exam_id = ?", *filter.ExamID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at DESC").Order("id DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// LoadForGrading reloads the submission aggregate inside the caller's unit of work. Every
// answer comes back with its question so grading never needs another query.
func (r *submissionRepository) LoadForGrading(ctx context.Context, id uint) (models.Submission, error) {
	return r.GetByID(ctx, id)
}

func (r *submissionRepository) ExistsForStudent(ctx context.Context, studentID, examID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// CreateWithAnswers inserts the submission row and bulk-inserts its answers atomically.
// Unique index violations surface as errors recognised by IsUniqueViolation.
func (r *submissionRepository) CreateWithAnswers(ctx context.Context, submission *models.Submission, answers []models.Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(submission).Error; err != nil {
			return err
		}

		if len(answers) == 0 {
			submission.Answers = nil
			return nil
		}

		for i := range answers {
			answers[i].SubmissionID = submission.ID
		}

		if err := tx.Omit(clause.Associations).Create(&answers).Error; err != nil {
			return err
		}

		submission.Answers = answers
		return nil
	})
}

// UpdateAnswerScores writes awarded_score and feedback for existing answer rows in a single
// UPDATE. Either every row is updated or none is.
func (r *submissionRepository) UpdateAnswerScores(ctx context.Context, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	var scoreCase, feedbackCase strings.Builder
	scoreArgs := make([]interface{}, 0, 2*len(answers))
	feedbackArgs := make([]interface{}, 0, 2*len(answers))
	ids := make([]uint, 0, len(answers))
	seen := make(map[uint]struct{}, len(answers))

	scoreCase.WriteString("CASE id")
	feedbackCase.WriteString("CASE id")
	for _, answer := range answers {
		if _, dup := seen[answer.ID]; dup {
			continue
		}
		seen[answer.ID] = struct{}{}
		ids = append(ids, answer.ID)

		scoreCase.WriteString(" WHEN ? THEN CAST(? AS DOUBLE PRECISION)")
		scoreArgs = append(scoreArgs, answer.ID, answer.AwardedScore)
		feedbackCase.WriteString(" WHEN ? THEN CAST(? AS TEXT)")
		feedbackArgs = append(feedbackArgs, answer.ID, answer.Feedback)
	}
	scoreCase.WriteString(" END")
	feedbackCase.WriteString(" END")

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Answer{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"awarded_score": gorm.Expr(scoreCase.String(), scoreArgs...),
				"feedback":      gorm.Expr(feedbackCase.String(), feedbackArgs...),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpdateFields persists only the named columns of the submission.
func (r *submissionRepository) UpdateFields(ctx context.Context, submission *models.Submission, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Submission{ID: submission.ID}).
		Select(fields).
		Omit(clause.Associations).
		Updates(submission)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
