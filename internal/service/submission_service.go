package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-exam-api/internal/dto"
	"github.com/noah-isme/gema-exam-api/internal/grading"
	"github.com/noah-isme/gema-exam-api/internal/models"
	"github.com/noah-isme/gema-exam-api/internal/observability"
	"github.com/noah-isme/gema-exam-api/internal/repository"
)

// SubmissionViewer identifies who is reading submissions. Staff may read every submission;
// students only their own.
type SubmissionViewer struct {
	ID    uint
	Staff bool
}

// SubmissionService orchestrates the submit-and-grade workflow and submission reads.
type SubmissionService interface {
	Submit(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionDetailResponse, error)
	List(ctx context.Context, viewer SubmissionViewer, filter dto.SubmissionFilter) ([]dto.SubmissionDetailResponse, error)
	Get(ctx context.Context, viewer SubmissionViewer, id uint) (dto.SubmissionDetailResponse, error)
}

type submissionService struct {
	transactor  repository.Transactor
	submissions repository.SubmissionRepository
	engine      grading.Engine
	events      GradeEventPublisher
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance. events may be nil.
func NewSubmissionService(transactor repository.Transactor, submissions repository.SubmissionRepository, engine grading.Engine, events GradeEventPublisher, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		transactor:  transactor,
		submissions: submissions,
		engine:      engine,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/gema-exam-api/internal/service/submission"),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionDetailResponse, error) {
	start := time.Now()

	spanCtx, span := s.tracer.Start(ctx, "submissions.submit", trace.WithAttributes(
		attribute.Int64("exam.id", int64(payload.ExamID)),
		attribute.Int64("student.id", int64(studentID)),
		attribute.Int("answers.count", len(payload.Answers)),
	))
	defer span.End()

	graded, err := s.submit(spanCtx, studentID, payload)
	if err != nil {
		outcome := outcomeFor(err)
		observability.Submissions().WithLabelValues(outcome).Inc()
		if outcome == observability.OutcomeError {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return dto.SubmissionDetailResponse{}, err
	}

	observability.Submissions().WithLabelValues(observability.OutcomeGraded).Inc()
	observability.GradingDuration().Observe(time.Since(start).Seconds())
	observability.SubmissionScore().Observe(graded.Score)
	span.SetAttributes(
		attribute.Int64("submission.id", int64(graded.ID)),
		attribute.Float64("submission.score", graded.Score),
		attribute.String("submission.grade_letter", graded.GradeLetter),
	)

	s.publishGraded(spanCtx, graded)

	s.logger.Info().
		Uint("submission_id", graded.ID).
		Uint("exam_id", graded.ExamID).
		Uint("student_id", graded.StudentID).
		Float64("score", graded.Score).
		Str("grade_letter", graded.GradeLetter).
		Msg("submission graded")

	return dto.NewSubmissionDetailResponse(graded), nil
}

// submit runs validation, persistence, grading and finalization as one transaction.
func (s *submissionService) submit(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest) (models.Submission, error) {
	if studentID == 0 {
		return models.Submission{}, newValidationError("student_id", "student identity is required")
	}

	var graded models.Submission
	err := s.transactor.WithinTransaction(ctx, func(repos repository.Repositories) error {
		questions, err := s.validate(ctx, repos.Exams, payload)
		if err != nil {
			return err
		}

		submissionID, err := s.persist(ctx, repos.Submissions, studentID, payload, questions)
		if err != nil {
			return err
		}

		loaded, err := s.grade(ctx, repos.Submissions, submissionID)
		if err != nil {
			return err
		}

		if err := s.finalize(ctx, repos.Submissions, &loaded); err != nil {
			return err
		}

		graded = loaded
		return nil
	})
	if err != nil {
		return models.Submission{}, err
	}

	return graded, nil
}

// validate checks the payload against the catalog and returns the referenced questions keyed by id.
// A referenced exam that does not exist is reported before any field-level problem.
func (s *submissionService) validate(ctx context.Context, exams repository.ExamRepository, payload dto.SubmissionCreateRequest) (map[uint]models.Question, error) {
	var exam models.Exam
	if payload.ExamID != 0 {
		var err error
		exam, err = exams.GetByID(ctx, payload.ExamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrExamNotFound
			}
			return nil, fmt.Errorf("load exam: %w", err)
		}
	}

	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	if len(payload.Answers) == 0 {
		return nil, newValidationError("answers", "at least one answer is required")
	}

	ids := make([]uint, 0, len(payload.Answers))
	seen := make(map[uint]struct{}, len(payload.Answers))
	for _, answer := range payload.Answers {
		if _, ok := seen[answer.QuestionID]; ok {
			return nil, newValidationError("answers", "duplicate question in answers")
		}
		seen[answer.QuestionID] = struct{}{}
		ids = append(ids, answer.QuestionID)
	}

	questions, err := exams.GetQuestions(ctx, exam.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	byID := make(map[uint]models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
		}
	}
	if len(missing) > 0 {
		return nil, newValidationError("answers", "questions not in this exam: %s", strings.Join(missing, ", "))
	}

	for _, answer := range payload.Answers {
		question := byID[answer.QuestionID]
		switch {
		case question.Type == models.QuestionTypeMCQ && answer.SelectedOption == "":
			return nil, newValidationError("answers", "MCQ question %d requires selected_option", question.ID)
		case question.Type.IsText() && answer.AnswerText == "":
			return nil, newValidationError("answers", "question %d requires answer_text", question.ID)
		}
	}

	return byID, nil
}

// persist stores the submission and its answers. The unique (student, exam) index is the
// authority on duplicates; the existence check only gives the common case a clean error.
func (s *submissionService) persist(ctx context.Context, submissions repository.SubmissionRepository, studentID uint, payload dto.SubmissionCreateRequest, questions map[uint]models.Question) (uint, error) {
	exists, err := submissions.ExistsForStudent(ctx, studentID, payload.ExamID)
	if err != nil {
		return 0, fmt.Errorf("check existing submission: %w", err)
	}
	if exists {
		return 0, alreadySubmitted(nil)
	}

	submittedAt := s.now().UTC()
	submission := models.Submission{
		StudentID:   studentID,
		ExamID:      payload.ExamID,
		Status:      models.SubmissionStatusSubmitted,
		SubmittedAt: &submittedAt,
	}

	answers := make([]models.Answer, 0, len(payload.Answers))
	for _, input := range payload.Answers {
		answers = append(answers, models.Answer{
			QuestionID:     questions[input.QuestionID].ID,
			AnswerText:     input.AnswerText,
			SelectedOption: input.SelectedOption,
		})
	}

	if err := submissions.CreateWithAnswers(ctx, &submission, answers); err != nil {
		if repository.IsUniqueViolation(err) {
			return 0, alreadySubmitted(err)
		}
		return 0, fmt.Errorf("create submission: %w", err)
	}

	return submission.ID, nil
}

// grade reloads the aggregate, scores it and writes the per-answer results back.
func (s *submissionService) grade(ctx context.Context, submissions repository.SubmissionRepository, submissionID uint) (models.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "submissions.grade", trace.WithAttributes(attribute.Int64("submission.id", int64(submissionID))))
	defer span.End()

	submission, err := submissions.LoadForGrading(ctx, submissionID)
	if err != nil {
		span.RecordError(err)
		return models.Submission{}, fmt.Errorf("reload submission: %w", err)
	}

	result, err := s.engine.Grade(submission)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.Submission{}, fmt.Errorf("grade submission %d: %w", submissionID, err)
	}

	byAnswer := make(map[uint]grading.QuestionResult, len(result.PerQuestion))
	for _, item := range result.PerQuestion {
		byAnswer[item.AnswerID] = item
	}
	for i := range submission.Answers {
		item := byAnswer[submission.Answers[i].ID]
		submission.Answers[i].AwardedScore = item.AwardedScore
		submission.Answers[i].Feedback = item.Feedback
	}

	if err := submissions.UpdateAnswerScores(ctx, submission.Answers); err != nil {
		return models.Submission{}, fmt.Errorf("update answer scores: %w", err)
	}

	submission.Score = result.TotalScore
	span.SetAttributes(attribute.Float64("submission.score", result.TotalScore))

	return submission, nil
}

// finalize marks the submission graded, persisting only the grading columns.
func (s *submissionService) finalize(ctx context.Context, submissions repository.SubmissionRepository, submission *models.Submission) error {
	gradedAt := s.now().UTC()
	submission.GradedAt = &gradedAt
	submission.Status = models.SubmissionStatusGraded
	submission.GradeLetter = grading.Letter(submission.Score)

	if err := submissions.UpdateFields(ctx, submission, "score", "graded_at", "status", "grade_letter"); err != nil {
		return fmt.Errorf("finalize submission: %w", err)
	}

	return nil
}

func (s *submissionService) publishGraded(ctx context.Context, submission models.Submission) {
	if s.events == nil {
		return
	}

	event := dto.SubmissionGradedEvent{
		SubmissionID: submission.ID,
		StudentID:    submission.StudentID,
		ExamID:       submission.ExamID,
		Score:        submission.Score,
		GradeLetter:  submission.GradeLetter,
	}
	if submission.GradedAt != nil {
		event.GradedAt = *submission.GradedAt
	}

	if err := s.events.PublishGraded(ctx, event); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to publish grade event")
	}
}

func (s *submissionService) List(ctx context.Context, viewer SubmissionViewer, filter dto.SubmissionFilter) ([]dto.SubmissionDetailResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{ExamID: filter.ExamID}
	if !viewer.Staff {
		studentID := viewer.ID
		repoFilter.StudentID = &studentID
	}
	if filter.Status != nil {
		status := models.SubmissionStatus(strings.ToUpper(*filter.Status))
		repoFilter.Status = &status
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionDetailResponseSlice(submissions), nil
}

func (s *submissionService) Get(ctx context.Context, viewer SubmissionViewer, id uint) (dto.SubmissionDetailResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionDetailResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionDetailResponse{}, err
	}

	if !viewer.Staff && submission.StudentID != viewer.ID {
		return dto.SubmissionDetailResponse{}, ErrSubmissionForbidden
	}

	return dto.NewSubmissionDetailResponse(submission), nil
}

func outcomeFor(err error) string {
	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
		fieldErrs     validator.ValidationErrors
	)

	switch {
	case errors.Is(err, ErrExamNotFound):
		return observability.OutcomeNotFound
	case errors.As(err, &conflictErr):
		return observability.OutcomeConflict
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs):
		return observability.OutcomeValidation
	default:
		return observability.OutcomeError
	}
}
