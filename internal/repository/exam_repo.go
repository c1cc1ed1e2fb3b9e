package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-exam-api/internal/models"
)

// ExamRepository reads the exam catalog.
type ExamRepository interface {
	List(ctx context.Context) ([]models.Exam, error)
	GetByID(ctx context.Context, id uint) (models.Exam, error)
	GetWithQuestions(ctx context.Context, id uint) (models.Exam, error)
	GetQuestions(ctx context.Context, examID uint, questionIDs []uint) ([]models.Question, error)
	CreateWithQuestions(ctx context.Context, exams []models.Exam) (int64, error)
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository instantiates a GORM-backed catalog repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) List(ctx context.Context) ([]models.Exam, error) {
	var exams []models.Exam
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *examRepository) GetWithQuestions(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("questions.id ASC")
		}).
		First(&exam, id).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

// GetQuestions returns the subset of questionIDs that belong to the exam.
func (r *examRepository) GetQuestions(ctx context.Context, examID uint, questionIDs []uint) ([]models.Question, error) {
	if len(questionIDs) == 0 {
		return []models.Question{}, nil
	}

	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Where("id IN ?", questionIDs).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

// CreateWithQuestions inserts exams together with their questions in one transaction.
func (r *examRepository) CreateWithQuestions(ctx context.Context, exams []models.Exam) (int64, error) {
	if len(exams) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range exams {
			result := tx.Create(&exams[i])
			if result.Error != nil {
				return result.Error
			}
			affected += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}
