package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-exam-api/internal/dto"
	"github.com/noah-isme/gema-exam-api/internal/observability"
	"github.com/noah-isme/gema-exam-api/internal/repository"
)

// ExamService exposes read operations over the exam catalog.
type ExamService interface {
	List(ctx context.Context) ([]dto.ExamSummaryResponse, error)
	Get(ctx context.Context, id uint) (dto.ExamDetailResponse, error)
}

type examService struct {
	repo   repository.ExamRepository
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewExamService constructs the catalog service. cache may be nil.
func NewExamService(repo repository.ExamRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ExamService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &examService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "exam_service").Logger(),
	}
}

func (s *examService) List(ctx context.Context) ([]dto.ExamSummaryResponse, error) {
	exams, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewExamSummaryResponseSlice(exams), nil
}

func (s *examService) Get(ctx context.Context, id uint) (dto.ExamDetailResponse, error) {
	if cached, ok := s.fetchCache(ctx, id); ok {
		observability.ExamCacheRequests().WithLabelValues("hit").Inc()
		return cached, nil
	}

	exam, err := s.repo.GetWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamDetailResponse{}, ErrExamNotFound
		}
		return dto.ExamDetailResponse{}, err
	}

	response := dto.NewExamDetailResponse(exam)
	s.writeCache(ctx, id, response)
	observability.ExamCacheRequests().WithLabelValues("miss").Inc()

	return response, nil
}

func (s *examService) fetchCache(ctx context.Context, id uint) (dto.ExamDetailResponse, bool) {
	if s.cache == nil {
		return dto.ExamDetailResponse{}, false
	}
	payload, err := s.cache.Get(ctx, examCacheKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Uint("exam_id", id).Msg("failed to read exam cache")
		}
		return dto.ExamDetailResponse{}, false
	}

	var result dto.ExamDetailResponse
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		s.logger.Warn().Err(err).Msg("failed to decode exam cache")
		return dto.ExamDetailResponse{}, false
	}
	return result, true
}

func (s *examService) writeCache(ctx context.Context, id uint, result dto.ExamDetailResponse) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode exam cache")
		return
	}
	if err := s.cache.Set(ctx, examCacheKey(id), payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store exam cache")
	}
}

func examCacheKey(id uint) string {
	return fmt.Sprintf("exams:v1:%d", id)
}
