package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/scope"
	"github.com/noah-isme/academix-go-api/internal/service"
	"github.com/noah-isme/academix-go-api/internal/utils"
)

// QuizHandler wires quiz authoring and read endpoints.
type QuizHandler struct {
	service service.QuizService
	logger  zerolog.Logger
}

// NewQuizHandler constructs the handler.
func NewQuizHandler(service service.QuizService, logger zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		service: service,
		logger:  logger.With().Str("component", "quiz_handler").Logger(),
	}
}

// RegisterRead attaches the read endpoints to the router group.
func (h *QuizHandler) RegisterRead(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAuthoring attaches the professor/manager authoring endpoints.
func (h *QuizHandler) RegisterAuthoring(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *QuizHandler) list(c *fiber.Ctx) error {
	var params dto.QuizListParams
	if err := c.QueryParser(&params); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	quizzes, err := h.service.List(c.Context(), identityFromContext(c), params)
	if err != nil {
		switch {
		case errors.Is(err, scope.ErrForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "outside your semester or courses")
		case errors.Is(err, scope.ErrInvalidRole):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list quizzes")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list quizzes")
		}
	}

	return utils.SendSuccess(c, "quizzes retrieved", quizzes)
}

func (h *QuizHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	quiz, err := h.service.Get(c.Context(), identityFromContext(c), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
		case errors.Is(err, service.ErrQuizForbidden), errors.Is(err, service.ErrNotQuizOwner), errors.Is(err, scope.ErrInvalidRole):
			return utils.SendError(c, fiber.StatusForbidden, "not allowed to view this quiz")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("quiz_id", id).Msg("failed to load quiz")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to load quiz")
		}
	}

	return utils.SendSuccess(c, "quiz retrieved", quiz)
}

func (h *QuizHandler) create(c *fiber.Ctx) error {
	var payload dto.QuizCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	quiz, err := h.service.Create(c.Context(), identityFromContext(c), payload)
	if err != nil {
		return h.authoringError(c, err, "failed to create quiz")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz created", quiz)
}

func (h *QuizHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.QuizUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	quiz, err := h.service.Update(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return h.authoringError(c, err, "failed to update quiz")
	}

	return utils.SendSuccess(c, "quiz updated", quiz)
}

func (h *QuizHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), identityFromContext(c), id); err != nil {
		return h.authoringError(c, err, "failed to delete quiz")
	}

	return utils.SendSuccess(c, "quiz deleted", nil)
}

func (h *QuizHandler) authoringError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrSemesterNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "semester not found")
	case errors.Is(err, service.ErrQuizForbidden), errors.Is(err, service.ErrNotCourseProfessor), errors.Is(err, service.ErrNotQuizOwner):
		return utils.SendError(c, fiber.StatusForbidden, "not allowed to modify this quiz")
	case errors.Is(err, service.ErrInvalidQuestion):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendValidationError(c, err)
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
