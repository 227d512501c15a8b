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

// AnnouncementHandler wires announcement endpoints.
type AnnouncementHandler struct {
	service service.AnnouncementService
	logger  zerolog.Logger
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(service service.AnnouncementService, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger.With().Str("component", "announcement_handler").Logger(),
	}
}

// RegisterRead attaches the read endpoints to the router group.
func (h *AnnouncementHandler) RegisterRead(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAuthoring attaches the professor/manager authoring endpoints.
func (h *AnnouncementHandler) RegisterAuthoring(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *AnnouncementHandler) list(c *fiber.Ctx) error {
	var params dto.AnnouncementListParams
	if err := c.QueryParser(&params); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	announcements, err := h.service.List(c.Context(), identityFromContext(c), params)
	if err != nil {
		switch {
		case errors.Is(err, scope.ErrForbidden), errors.Is(err, scope.ErrInvalidRole):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list announcements")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list announcements")
		}
	}

	return utils.SendSuccess(c, "announcements retrieved", announcements)
}

func (h *AnnouncementHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	announcement, err := h.service.Get(c.Context(), identityFromContext(c), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAnnouncementNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "announcement not found")
		case errors.Is(err, service.ErrAnnouncementForbidden), errors.Is(err, scope.ErrInvalidRole):
			return utils.SendError(c, fiber.StatusForbidden, "not allowed to view this announcement")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("announcement_id", id).Msg("failed to load announcement")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to load announcement")
		}
	}

	return utils.SendSuccess(c, "announcement retrieved", announcement)
}

func (h *AnnouncementHandler) create(c *fiber.Ctx) error {
	var payload dto.AnnouncementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	announcement, err := h.service.Create(c.Context(), identityFromContext(c), payload)
	if err != nil {
		return h.authoringError(c, err, "failed to create announcement")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement created", announcement)
}

func (h *AnnouncementHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AnnouncementUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	announcement, err := h.service.Update(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return h.authoringError(c, err, "failed to update announcement")
	}

	return utils.SendSuccess(c, "announcement updated", announcement)
}

func (h *AnnouncementHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), identityFromContext(c), id); err != nil {
		return h.authoringError(c, err, "failed to delete announcement")
	}

	return utils.SendSuccess(c, "announcement deleted", nil)
}

func (h *AnnouncementHandler) authoringError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrAnnouncementNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "announcement not found")
	case errors.Is(err, service.ErrSemesterNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "semester not found")
	case errors.Is(err, service.ErrAnnouncementForbidden), errors.Is(err, service.ErrNotAnnouncementAuthor):
		return utils.SendError(c, fiber.StatusForbidden, "not allowed to modify this announcement")
	case isValidationError(err):
		return utils.SendValidationError(c, err)
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
