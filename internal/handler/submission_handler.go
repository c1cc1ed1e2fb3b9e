package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-exam-api/internal/dto"
	"github.com/noah-isme/gema-exam-api/internal/middleware"
	"github.com/noah-isme/gema-exam-api/internal/service"
	"github.com/noah-isme/gema-exam-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. Submitting is wrapped by the
// supplied guards; reads only require an authenticated user.
func (h *SubmissionHandler) Register(router fiber.Router, submitGuards ...fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.detail)

	create := append(append([]fiber.Handler{}, submitGuards...), h.create)
	router.Post("", create...)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	filter := dto.SubmissionFilter{}
	examID, err := parseQueryUint(c, "exam_id")
	if err != nil {
		return utils.SendFieldErrors(c, fiber.StatusBadRequest, "invalid query", map[string]string{"exam_id": "must be a positive integer"})
	}
	filter.ExamID = examID
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	submissions, err := h.service.List(c.UserContext(), viewerFromContext(c), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) detail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.Get(c.UserContext(), viewerFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	studentID, ok := middleware.CallerID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	submission, err := h.service.Submit(c.UserContext(), studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Uint("submission_id", submission.ID).
		Str("grade_letter", submission.GradeLetter).
		Msg("submission accepted")

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission graded", submission)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var (
		validationErrors validator.ValidationErrors
		validationErr    *service.ValidationError
		conflictErr      *service.ConflictError
	)

	switch {
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendFieldErrors(c, fiber.StatusNotFound, "exam not found", map[string]string{"exam_id": "exam not found"})
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrSubmissionForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "you do not have access to this submission")
	case errors.As(err, &conflictErr):
		return utils.SendFieldErrors(c, fiber.StatusBadRequest, "submission conflict", conflictErr.Fields())
	case errors.As(err, &validationErr):
		return utils.SendFieldErrors(c, fiber.StatusBadRequest, "validation failed", validationErr.Fields())
	case errors.As(err, &validationErrors):
		return utils.SendFieldErrors(c, fiber.StatusBadRequest, "validation failed", utils.ValidationFields(validationErrors))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
