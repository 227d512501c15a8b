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

// CourseHandler wires course endpoints. Every role can list courses within
// its scope; mutations are registered under the manager group.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// RegisterRead attaches the read endpoints to the router group.
func (h *CourseHandler) RegisterRead(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterManaged attaches the mutation endpoints to the router group.
func (h *CourseHandler) RegisterManaged(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	var params dto.CourseListParams
	if err := c.QueryParser(&params); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	courses, err := h.service.List(c.Context(), identityFromContext(c), params)
	if err != nil {
		switch {
		case errors.Is(err, scope.ErrForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "outside your semester")
		case errors.Is(err, scope.ErrInvalidRole):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list courses")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list courses")
		}
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSemesterNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "semester not found")
		case errors.Is(err, service.ErrInvalidProfessors):
			return utils.SendError(c, fiber.StatusBadRequest, "one or more professor ids are invalid")
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create course")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create course")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrSemesterNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "semester not found")
		case errors.Is(err, service.ErrInvalidProfessors):
			return utils.SendError(c, fiber.StatusBadRequest, "one or more professor ids are invalid")
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("course_id", id).Msg("failed to update course")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update course")
		}
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrCourseInUse):
			return utils.SendError(c, fiber.StatusConflict, "course is still referenced by quizzes")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("course_id", id).Msg("failed to delete course")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete course")
		}
	}

	return utils.SendSuccess(c, "course deleted", nil)
}
