package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-exam-api/internal/dto"
	"github.com/noah-isme/gema-exam-api/internal/models"
	"github.com/noah-isme/gema-exam-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService loads exam catalogs for local and staging environments.
type SeedService interface {
	SeedExams(ctx context.Context, token string, payload dto.ExamSeedRequest) (int64, error)
}

type seedService struct {
	exams     repository.ExamRepository
	validator *validator.Validate
	enabled   bool
	token     string
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(exams repository.ExamRepository, validate *validator.Validate, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		exams:     exams,
		validator: validate,
		enabled:   enabled,
		token:     token,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedExams(ctx context.Context, token string, payload dto.ExamSeedRequest) (int64, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}
	if err := s.validator.Struct(payload); err != nil {
		return 0, err
	}

	exams := normalizeExams(payload.Items)
	affected, err := s.exams.CreateWithQuestions(ctx, exams)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("affected", affected).Msg("exams seeded")
	return affected, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

func normalizeExams(items []dto.ExamSeed) []models.Exam {
	exams := make([]models.Exam, 0, len(items))
	for _, item := range items {
		exam := item.ToModel()
		exam.Title = strings.TrimSpace(exam.Title)
		exam.Course = strings.TrimSpace(exam.Course)
		for i := range exam.Questions {
			exam.Questions[i].Type = models.QuestionType(strings.ToUpper(strings.TrimSpace(string(exam.Questions[i].Type))))
			if exam.Questions[i].MaxScore == 0 {
				exam.Questions[i].MaxScore = 1
			}
		}
		exams = append(exams, exam)
	}
	return exams
}
