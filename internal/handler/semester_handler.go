package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/service"
	"github.com/noah-isme/academix-go-api/internal/utils"
)

// SemesterHandler wires semester endpoints. Listing is public; mutations
// are registered under the manager group.
type SemesterHandler struct {
	service service.SemesterService
	logger  zerolog.Logger
}

// NewSemesterHandler constructs the handler.
func NewSemesterHandler(service service.SemesterService, logger zerolog.Logger) *SemesterHandler {
	return &SemesterHandler{
		service: service,
		logger:  logger.With().Str("component", "semester_handler").Logger(),
	}
}

// RegisterRead attaches the read endpoints to the router group.
func (h *SemesterHandler) RegisterRead(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterManaged attaches the mutation endpoints to the router group.
func (h *SemesterHandler) RegisterManaged(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *SemesterHandler) list(c *fiber.Ctx) error {
	semesters, err := h.service.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list semesters")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list semesters")
	}

	return utils.SendSuccess(c, "semesters retrieved", semesters)
}

func (h *SemesterHandler) create(c *fiber.Ctx) error {
	var payload dto.SemesterCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	semester, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSemesterNameTaken):
			return utils.SendError(c, fiber.StatusConflict, "semester name already exists")
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create semester")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create semester")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "semester created", semester)
}

func (h *SemesterHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.SemesterUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	semester, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSemesterNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "semester not found")
		case errors.Is(err, service.ErrSemesterNameTaken):
			return utils.SendError(c, fiber.StatusConflict, "semester name already exists")
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("semester_id", id).Msg("failed to update semester")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update semester")
		}
	}

	return utils.SendSuccess(c, "semester updated", semester)
}

func (h *SemesterHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrSemesterNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "semester not found")
		case errors.Is(err, service.ErrSemesterInUse):
			return utils.SendError(c, fiber.StatusConflict, "semester is still referenced")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("semester_id", id).Msg("failed to delete semester")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete semester")
		}
	}

	return utils.SendSuccess(c, "semester deleted", nil)
}
