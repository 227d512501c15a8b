package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/service"
	"github.com/noah-isme/academix-go-api/internal/utils"
)

// GradeHandler wires quiz submission and grade retrieval endpoints.
type GradeHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service service.GradingService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// RegisterStudent attaches the student submission and grade endpoints.
func (h *GradeHandler) RegisterStudent(router fiber.Router) {
	router.Post("/submit", h.submit)
	router.Get("/me", h.myGrades)
}

// RegisterStaff attaches the per-quiz grade listing for professors and managers.
func (h *GradeHandler) RegisterStaff(router fiber.Router) {
	router.Get("/quiz/:id", h.quizGrades)
}

func (h *GradeHandler) submit(c *fiber.Ctx) error {
	var payload dto.QuizSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	grade, err := h.service.Submit(c.Context(), identityFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
		case errors.Is(err, service.ErrNotEnrolledForQuiz):
			return utils.SendError(c, fiber.StatusForbidden, "not assigned to the semester for this quiz")
		case errors.Is(err, service.ErrGradesForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "only students can submit quizzes")
		case errors.Is(err, service.ErrDeadlinePassed):
			return utils.SendError(c, fiber.StatusBadRequest, "quiz submission deadline has passed")
		case errors.Is(err, service.ErrAlreadySubmitted):
			return utils.SendError(c, fiber.StatusConflict, "quiz already submitted")
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("quiz_id", payload.QuizID).Msg("failed to grade submission")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to grade submission")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz graded", grade)
}

func (h *GradeHandler) myGrades(c *fiber.Ctx) error {
	quizID, err := parseOptionalQuizFilter(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid quiz filter")
	}

	grades, err := h.service.MyGrades(c.Context(), identityFromContext(c), quizID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGradesForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "only students have personal grades")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list grades")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list grades")
		}
	}

	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *GradeHandler) quizGrades(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	grades, err := h.service.QuizGrades(c.Context(), identityFromContext(c), quizID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
		case errors.Is(err, service.ErrGradesForbidden), errors.Is(err, service.ErrNotQuizOwner):
			return utils.SendError(c, fiber.StatusForbidden, "not allowed to view these grades")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("quiz_id", quizID).Msg("failed to list quiz grades")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list quiz grades")
		}
	}

	return utils.SendSuccess(c, "grades retrieved", grades)
}

func parseOptionalQuizFilter(c *fiber.Ctx) (uint, error) {
	value := c.Query("quiz_id")
	if value == "" {
		return 0, nil
	}

	parsed, err := parseQueryUint(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
